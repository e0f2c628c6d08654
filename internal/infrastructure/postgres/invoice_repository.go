package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/billing"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, number, invoice_date, customer_id, agent_id, plate_no, delivery_status, terms, remarks,
	discount, grand_total, partial_payment, remaining_balance, payment_status,
	is_deleted, deleted_at, created_by, created_at, updated_at`

// rowScanner lo cumplen pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var (
		inv                               entity.Invoice
		agentID, plateNo, remarks, byUser *string
		status                            string
	)
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.Date, &inv.CustomerID, &agentID, &plateNo, &inv.DeliveryStatus, &inv.Terms, &remarks,
		&inv.Discount, &inv.GrandTotal, &inv.PartialPayment, &inv.RemainingBalance, &status,
		&inv.IsDeleted, &inv.DeletedAt, &byUser, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.AgentID = derefString(agentID)
	inv.PlateNo = derefString(plateNo)
	inv.Remarks = derefString(remarks)
	inv.CreatedBy = derefString(byUser)
	inv.PaymentStatus = billing.PaymentStatus(status)
	return &inv, nil
}

// Create persiste la cabecera de la factura con sus derivados iniciales.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales_invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.Number, dateOnly(invoice.Date), invoice.CustomerID, nullIfEmpty(invoice.AgentID),
		nullIfEmpty(invoice.PlateNo), invoice.DeliveryStatus, invoice.Terms, nullIfEmpty(invoice.Remarks),
		invoice.Discount, invoice.GrandTotal, invoice.PartialPayment, invoice.RemainingBalance, string(invoice.PaymentStatus),
		invoice.IsDeleted, invoice.DeletedAt, nullIfEmpty(invoice.CreatedBy), invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", domain.ErrDuplicate)
		}
		if isFKViolation(err) {
			return fmt.Errorf("invoice references: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID, incluidas las eliminadas.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT`+invoiceColumns+` FROM sales_invoices WHERE id = $1`, id)
}

// GetForUpdate lee la factura con SELECT ... FOR UPDATE.
// Solo tiene efecto dentro de una transacción.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT`+invoiceColumns+` FROM sales_invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) get(ctx context.Context, query, id string) (*entity.Invoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// Update actualiza los campos de cabecera. Los derivados los escribe UpdateTotals.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE sales_invoices
		SET number          = $2,
		    invoice_date    = $3,
		    customer_id     = $4,
		    agent_id        = $5,
		    plate_no        = $6,
		    delivery_status = $7,
		    terms           = $8,
		    remarks         = $9,
		    discount        = $10,
		    updated_at      = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.Number, dateOnly(invoice.Date), invoice.CustomerID, nullIfEmpty(invoice.AgentID),
		nullIfEmpty(invoice.PlateNo), invoice.DeliveryStatus, invoice.Terms, nullIfEmpty(invoice.Remarks),
		invoice.Discount, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", domain.ErrDuplicate)
		}
		if isFKViolation(err) {
			return fmt.Errorf("invoice references: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateTotals escribe los cuatro campos derivados.
func (r *InvoiceRepo) UpdateTotals(ctx context.Context, id string, totals billing.Totals) error {
	const query = `
		UPDATE sales_invoices
		SET grand_total       = $2,
		    partial_payment   = $3,
		    remaining_balance = $4,
		    payment_status    = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		id, totals.GrandTotal, totals.PartialPayment, totals.RemainingBalance, string(totals.PaymentStatus),
	)
	if err != nil {
		return fmt.Errorf("update invoice totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca la factura como eliminada. Repetirlo no cambia deleted_at.
func (r *InvoiceRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const query = `
		UPDATE sales_invoices
		SET is_deleted = true,
		    deleted_at = COALESCE(deleted_at, $2),
		    updated_at = $2
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("soft delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la factura; las FK con ON DELETE CASCADE eliminan renglones, abonos y cheques.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales_invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve una página de facturas filtradas y el total sin paginar.
// Orden: fecha descendente y número descendente.
func (r *InvoiceRepo) List(ctx context.Context, filter repository.InvoiceFilter, limit, offset int) ([]*entity.Invoice, int, error) {
	where, args := invoiceWhere(filter)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales_invoices`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT%s FROM sales_invoices%s ORDER BY invoice_date DESC, number DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// invoiceWhere arma la cláusula WHERE con placeholders $n en orden.
func invoiceWhere(f repository.InvoiceFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if !f.IncludeDeleted {
		conds = append(conds, "NOT is_deleted")
	}
	if f.PaymentStatus != "" {
		add("payment_status = $%d", f.PaymentStatus)
	}
	if f.DeliveryStatus != "" {
		add("delivery_status = $%d", f.DeliveryStatus)
	}
	if f.CustomerID != "" {
		add("customer_id = $%d", f.CustomerID)
	}
	if f.AgentID != "" {
		add("agent_id = $%d", f.AgentID)
	}
	if f.NumberPrefix != "" {
		add("number LIKE $%d", escapeLike(f.NumberPrefix)+"%")
	}
	if f.From != nil {
		add("invoice_date >= $%d", dateOnly(*f.From))
	}
	if f.To != nil {
		add("invoice_date <= $%d", dateOnly(*f.To))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListActiveIDs IDs de las facturas no eliminadas.
func (r *InvoiceRepo) ListActiveIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM sales_invoices WHERE NOT is_deleted ORDER BY invoice_date, number`)
	if err != nil {
		return nil, fmt.Errorf("list invoice ids: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
