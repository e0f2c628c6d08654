package cache_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/infrastructure/cache"
)

func newCache(t *testing.T) (*cache.SummaryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewSummaryCache(client, time.Minute), mr
}

func key(t *testing.T, c *cache.SummaryCache, period string) string {
	t.Helper()
	k, err := c.Key(context.Background(), period)
	require.NoError(t, err)
	return k
}

func TestSummaryCache_GuardaYLee(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	k := key(t, c, "2026-01-01..2026-01-31")
	assert.Equal(t, "dashboard:summary:0:2026-01-01..2026-01-31", k)

	got, err := c.GetSummary(ctx, k)
	require.NoError(t, err)
	assert.Nil(t, got)

	in := &dto.DashboardSummaryDTO{InvoiceCount: 3, TotalSales: "150.00", ByPaymentStatus: map[string]int{"Paid": 3}}
	require.NoError(t, c.SetSummary(ctx, k, in))

	got, err = c.GetSummary(ctx, key(t, c, "2026-01-01..2026-01-31"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.InvoiceCount)
	assert.Equal(t, "150.00", got.TotalSales)
	assert.Equal(t, 3, got.ByPaymentStatus["Paid"])
}

func TestSummaryCache_InvalidarDescartaTodo(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetSummary(ctx, key(t, c, ".."), &dto.DashboardSummaryDTO{InvoiceCount: 1}))
	require.NoError(t, c.InvalidateSummary(ctx))

	got, err := c.GetSummary(ctx, key(t, c, ".."))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSummaryCache_EscrituraConClaveViejaNoSeLee(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	// La lectura toma la clave, otra operación invalida, luego la lectura guarda.
	stale := key(t, c, "..")
	require.NoError(t, c.InvalidateSummary(ctx))
	require.NoError(t, c.SetSummary(ctx, stale, &dto.DashboardSummaryDTO{TotalSales: "10.00"}))

	got, err := c.GetSummary(ctx, key(t, c, ".."))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSummaryCache_VenceConTTL(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetSummary(ctx, key(t, c, ".."), &dto.DashboardSummaryDTO{InvoiceCount: 1}))
	mr.FastForward(2 * time.Minute)

	got, err := c.GetSummary(ctx, key(t, c, ".."))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSummaryCache_NilNoFalla(t *testing.T) {
	var c *cache.SummaryCache
	ctx := context.Background()

	k, err := c.Key(ctx, "..")
	assert.NoError(t, err)
	assert.Empty(t, k)
	got, err := c.GetSummary(ctx, "..")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.SetSummary(ctx, "..", &dto.DashboardSummaryDTO{}))
	assert.NoError(t, c.InvalidateSummary(ctx))
}

func TestNew_FallaSinServidor(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := cache.New(context.Background(), addr, "", 0)
	assert.Error(t, err)
}

func TestNew_ConectaConPing(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.New(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}
