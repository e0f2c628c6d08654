package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/margiesol/mew-bad/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el tablero de ventas.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador del tablero.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

// periodWhere filtra facturas vigentes; $1 y $2 son from/to opcionales.
const periodWhere = `
	WHERE NOT is_deleted
	  AND ($1::date IS NULL OR invoice_date >= $1)
	  AND ($2::date IS NULL OR invoice_date <= $2)`

func periodArgs(from, to *time.Time) []any {
	var f, t *time.Time
	if from != nil {
		d := dateOnly(*from)
		f = &d
	}
	if to != nil {
		d := dateOnly(*to)
		t = &d
	}
	return []any{f, t}
}

// SalesTotals suma total vendido, cobrado y por cobrar en el período.
// Usa COALESCE para devolver cero si no hay facturas.
func (r *DashboardRepo) SalesTotals(ctx context.Context, from, to *time.Time) (repository.SalesTotals, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(grand_total), 0),
		       COALESCE(SUM(partial_payment), 0),
		       COALESCE(SUM(remaining_balance), 0)
		FROM sales_invoices` + periodWhere
	var out repository.SalesTotals
	err := r.pool.QueryRow(ctx, query, periodArgs(from, to)...).Scan(
		&out.InvoiceCount, &out.TotalSales, &out.TotalReceived, &out.TotalOutstanding,
	)
	if err != nil {
		return repository.SalesTotals{}, fmt.Errorf("sales totals: %w", err)
	}
	return out, nil
}

// CountByPaymentStatus cuenta facturas por estado de pago.
func (r *DashboardRepo) CountByPaymentStatus(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	return r.countBy(ctx, "payment_status", from, to)
}

// CountByDeliveryStatus cuenta facturas por estado de entrega.
func (r *DashboardRepo) CountByDeliveryStatus(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	return r.countBy(ctx, "delivery_status", from, to)
}

func (r *DashboardRepo) countBy(ctx context.Context, column string, from, to *time.Time) (map[string]int, error) {
	query := `SELECT ` + column + `, COUNT(*) FROM sales_invoices` + periodWhere + ` GROUP BY ` + column
	rows, err := r.pool.Query(ctx, query, periodArgs(from, to)...)
	if err != nil {
		return nil, fmt.Errorf("count by %s: %w", column, err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan count by %s: %w", column, err)
		}
		out[key] = n
	}
	return out, rows.Err()
}

// CountOverdue facturas vigentes con saldo cuyo vencimiento (fecha + días de crédito) ya pasó.
func (r *DashboardRepo) CountOverdue(ctx context.Context, asOf time.Time) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM sales_invoices
		WHERE NOT is_deleted
		  AND remaining_balance > 0
		  AND invoice_date + terms < $1::date`
	var n int
	if err := r.pool.QueryRow(ctx, query, dateOnly(asOf)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count overdue: %w", err)
	}
	return n, nil
}
