package analytics_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margiesol/mew-bad/internal/application/analytics"
	"github.com/margiesol/mew-bad/internal/application/billing"
	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/repository"
	"github.com/margiesol/mew-bad/internal/infrastructure/cache"
	"github.com/margiesol/mew-bad/internal/infrastructure/memory"
)

type env struct {
	store    *memory.Store
	invoices *billing.InvoiceUseCase
	records  *billing.RecordUseCase
	customer string
	product  string
}

func newEnv(t *testing.T, invalidator billing.SummaryInvalidator) *env {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	c := &entity.Customer{ID: "11111111-1111-1111-1111-111111111111", Code: "0001", Name: "Tienda Sol"}
	p := &entity.Product{ID: "22222222-2222-2222-2222-222222222222", Code: "00001", ProductCode: "A",
		Price: decimal.NewFromInt(10), Status: entity.ProductActive}
	require.NoError(t, s.Customers().Create(ctx, c))
	require.NoError(t, s.Products().Create(ctx, p))
	svc := billing.NewRecomputeService(s, invalidator, nil)
	return &env{
		store:    s,
		invoices: billing.NewInvoiceUseCase(s, s.Billing(), s.Customers(), s.Agents(), svc),
		records:  billing.NewRecordUseCase(s, s.Billing(), s.Products(), svc),
		customer: c.ID,
		product:  p.ID,
	}
}

func (e *env) invoice(t *testing.T, number, date string, qty int64) string {
	t.Helper()
	ctx := context.Background()
	inv, err := e.invoices.Create(ctx, "", dto.CreateInvoiceRequest{Number: number, Date: date, CustomerID: e.customer, Terms: 15})
	require.NoError(t, err)
	if qty > 0 {
		_, err = e.records.Add(ctx, inv.ID, entity.LineKindOrder, dto.LineRecordRequest{ProductID: e.product, Quantity: decimal.NewFromInt(qty)})
		require.NoError(t, err)
	}
	return inv.ID
}

func TestGetSummary_TotalesPorPeriodo(t *testing.T) {
	e := newEnv(t, nil)
	e.invoice(t, "SI-1", "2020-05-01", 3)
	e.invoice(t, "SI-2", "2020-05-20", 0)
	e.invoice(t, "SI-3", "2020-06-02", 1)
	deleted := e.invoice(t, "SI-4", "2020-05-05", 9)
	require.NoError(t, e.invoices.Delete(context.Background(), deleted))

	uc := analytics.NewDashboardUseCase(e.store.Dashboard(), nil, nil)
	sum, err := uc.GetSummary(context.Background(), dto.DashboardSummaryRequest{From: "2020-05-01", To: "2020-05-31"})
	require.NoError(t, err)

	assert.Equal(t, 2, sum.InvoiceCount)
	assert.Equal(t, "30.00", sum.TotalSales)
	assert.Equal(t, "0.00", sum.TotalReceived)
	assert.Equal(t, "30.00", sum.TotalOutstanding)
	assert.Equal(t, 1, sum.ByPaymentStatus["Unpaid"])
	assert.Equal(t, 1, sum.ByPaymentStatus["Paid"])
	assert.Equal(t, 2, sum.ByDeliveryStatus["Pending"])
	assert.Equal(t, 2, sum.OverdueCount, "vencidas no depende del periodo")
}

func TestGetSummary_RangoInvertido(t *testing.T) {
	e := newEnv(t, nil)
	uc := analytics.NewDashboardUseCase(e.store.Dashboard(), nil, nil)

	_, err := uc.GetSummary(context.Background(), dto.DashboardSummaryRequest{From: "2020-06-01", To: "2020-05-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetSummary_CacheSeInvalidaAlRecalcular(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sc := cache.NewSummaryCache(client, time.Minute)

	e := newEnv(t, sc)
	id := e.invoice(t, "SI-1", "2020-05-01", 1)
	uc := analytics.NewDashboardUseCase(e.store.Dashboard(), sc, nil)
	ctx := context.Background()

	first, err := uc.GetSummary(ctx, dto.DashboardSummaryRequest{})
	require.NoError(t, err)
	assert.Equal(t, "10.00", first.TotalSales)

	_, err = e.records.Add(ctx, id, entity.LineKindReturn, dto.LineRecordRequest{ProductID: e.product, Quantity: decimal.NewFromInt(1)})
	require.NoError(t, err)

	second, err := uc.GetSummary(ctx, dto.DashboardSummaryRequest{})
	require.NoError(t, err)
	assert.Equal(t, "0.00", second.TotalSales)
}

// commitDuringRead devuelve el total vigente y, en la primera consulta,
// simula un recálculo que confirma otro total e invalida la caché.
type commitDuringRead struct {
	mu     sync.Mutex
	total  decimal.Decimal
	calls  int
	commit func()
}

func (r *commitDuringRead) SalesTotals(ctx context.Context, from, to *time.Time) (repository.SalesTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	out := repository.SalesTotals{InvoiceCount: 1, TotalSales: r.total}
	if r.calls == 1 {
		r.total = decimal.NewFromInt(99)
		r.commit()
	}
	return out, nil
}

func (r *commitDuringRead) CountByPaymentStatus(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

func (r *commitDuringRead) CountByDeliveryStatus(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

func (r *commitDuringRead) CountOverdue(ctx context.Context, asOf time.Time) (int, error) {
	return 0, nil
}

func TestGetSummary_InvalidacionDuranteLecturaNoDejaResumenViejo(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sc := cache.NewSummaryCache(client, time.Minute)
	ctx := context.Background()

	repo := &commitDuringRead{total: decimal.NewFromInt(10)}
	repo.commit = func() { assert.NoError(t, sc.InvalidateSummary(ctx)) }
	uc := analytics.NewDashboardUseCase(repo, sc, nil)

	first, err := uc.GetSummary(ctx, dto.DashboardSummaryRequest{})
	require.NoError(t, err)
	assert.Equal(t, "10.00", first.TotalSales)

	second, err := uc.GetSummary(ctx, dto.DashboardSummaryRequest{})
	require.NoError(t, err)
	assert.Equal(t, "99.00", second.TotalSales)
	assert.Equal(t, 2, repo.calls)

	third, err := uc.GetSummary(ctx, dto.DashboardSummaryRequest{})
	require.NoError(t, err)
	assert.Equal(t, "99.00", third.TotalSales)
	assert.Equal(t, 2, repo.calls, "la tercera lectura sale de la caché")
}
