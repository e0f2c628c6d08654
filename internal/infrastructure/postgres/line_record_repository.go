package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/repository"
)

var _ repository.LineRecordRepository = (*LineRecordRepo)(nil)

// LineRecordRepo renglones de pedido o devolución; order_records y return_records comparten forma.
type LineRecordRepo struct {
	q     Querier
	table string
	kind  string
}

// NewOrderRecordRepository repositorio de renglones de pedido.
func NewOrderRecordRepository(q Querier) *LineRecordRepo {
	return &LineRecordRepo{q: q, table: "order_records", kind: entity.LineKindOrder}
}

// NewReturnRecordRepository repositorio de renglones de devolución.
func NewReturnRecordRepository(q Querier) *LineRecordRepo {
	return &LineRecordRepo{q: q, table: "return_records", kind: entity.LineKindReturn}
}

const lineColumns = `id, invoice_id, product_id, quantity, price_per_unit, rate, total_price, created_at, updated_at`

func (r *LineRecordRepo) scan(row rowScanner) (*entity.LineRecord, error) {
	rec := entity.LineRecord{Kind: r.kind}
	err := row.Scan(
		&rec.ID, &rec.InvoiceID, &rec.ProductID, &rec.Quantity, &rec.PricePerUnit, &rec.Rate, &rec.TotalPrice,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create persiste el renglón. El par factura+producto es único por tabla.
func (r *LineRecordRepo) Create(ctx context.Context, record *entity.LineRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `INSERT INTO ` + r.table + ` (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		record.ID, record.InvoiceID, record.ProductID, record.Quantity, record.PricePerUnit, record.Rate, record.TotalPrice,
		record.CreatedAt, record.UpdatedAt,
	)
	return r.writeErr("insert", err)
}

// GetByID obtiene un renglón por ID.
func (r *LineRecordRepo) GetByID(ctx context.Context, id string) (*entity.LineRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	rec, err := r.scan(r.q.QueryRow(ctx, `SELECT `+lineColumns+` FROM `+r.table+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.table, err)
	}
	return rec, nil
}

// Update reemplaza producto, cantidad, precio, tasa y total.
func (r *LineRecordRepo) Update(ctx context.Context, record *entity.LineRecord) error {
	query := `
		UPDATE ` + r.table + `
		SET product_id = $2, quantity = $3, price_per_unit = $4, rate = $5, total_price = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		record.ID, record.ProductID, record.Quantity, record.PricePerUnit, record.Rate, record.TotalPrice, record.UpdatedAt,
	)
	if err := r.writeErr("update", err); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra un renglón.
func (r *LineRecordRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM `+r.table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByInvoice renglones de la factura en orden de captura.
func (r *LineRecordRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.LineRecord, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+lineColumns+` FROM `+r.table+` WHERE invoice_id = $1 ORDER BY created_at, id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	var list []*entity.LineRecord
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func (r *LineRecordRepo) writeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("product already on invoice %s: %w", r.kind, domain.ErrDuplicate)
	case isFKViolation(err):
		return fmt.Errorf("%s references: %w", r.table, domain.ErrNotFound)
	default:
		return fmt.Errorf("%s %s: %w", op, r.table, err)
	}
}
