package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentSelect = `
	SELECT p.id, p.invoice_id, p.sequence_no, p.payment_date, p.amount, p.payment_type, p.days,
	       p.created_at, p.updated_at,
	       c.bank_id, c.cheque_no, c.cheque_date, c.status, c.updated_at
	FROM payment_records p
	LEFT JOIN cheque_payments c ON c.payment_id = p.id`

func scanPayment(row rowScanner) (*entity.PaymentRecord, error) {
	var (
		p                              entity.PaymentRecord
		bankID, chequeNo, chequeStatus *string
		chequeDate, chequeUpdatedAt    *time.Time
	)
	err := row.Scan(
		&p.ID, &p.InvoiceID, &p.SequenceNo, &p.PaymentDate, &p.Amount, &p.PaymentType, &p.Days,
		&p.CreatedAt, &p.UpdatedAt,
		&bankID, &chequeNo, &chequeDate, &chequeStatus, &chequeUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if bankID != nil {
		p.Cheque = &entity.ChequePayment{
			PaymentID: p.ID,
			BankID:    *bankID,
			ChequeNo:  derefString(chequeNo),
			Status:    derefString(chequeStatus),
		}
		if chequeDate != nil {
			p.Cheque.ChequeDate = *chequeDate
		}
		if chequeUpdatedAt != nil {
			p.Cheque.UpdatedAt = *chequeUpdatedAt
		}
	}
	return &p, nil
}

// Create persiste el abono con el siguiente consecutivo de la factura.
// El caller debe tener bloqueada la factura para que el consecutivo no se repita.
func (r *PaymentRepo) Create(ctx context.Context, payment *entity.PaymentRecord) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO payment_records (id, invoice_id, sequence_no, payment_date, amount, payment_type, days, created_at, updated_at)
		SELECT $1, $2, COALESCE(MAX(sequence_no), 0) + 1, $3, $4, $5, $6, $7, $8
		FROM payment_records WHERE invoice_id = $2
		RETURNING sequence_no`
	err := r.q.QueryRow(ctx, query,
		payment.ID, payment.InvoiceID, dateOnly(payment.PaymentDate), payment.Amount, payment.PaymentType, payment.Days,
		payment.CreatedAt, payment.UpdatedAt,
	).Scan(&payment.SequenceNo)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("payment sequence taken: %w", domain.ErrConflict)
		}
		if isFKViolation(err) {
			return fmt.Errorf("payment invoice: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene un abono con su cheque, si lo tiene.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.PaymentRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	p, err := scanPayment(r.q.QueryRow(ctx, paymentSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// Update actualiza fecha, monto, forma de pago y días. El cheque va por SaveCheque.
func (r *PaymentRepo) Update(ctx context.Context, payment *entity.PaymentRecord) error {
	const query = `
		UPDATE payment_records
		SET payment_date = $2, amount = $3, payment_type = $4, days = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		payment.ID, dateOnly(payment.PaymentDate), payment.Amount, payment.PaymentType, payment.Days, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el abono; su cheque cae en cascada.
func (r *PaymentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM payment_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByInvoice abonos de la factura por consecutivo.
func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.PaymentRecord, error) {
	rows, err := r.q.Query(ctx, paymentSelect+` WHERE p.invoice_id = $1 ORDER BY p.sequence_no`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var list []*entity.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// SaveCheque inserta o reemplaza el detalle de cheque del abono.
func (r *PaymentRepo) SaveCheque(ctx context.Context, cheque *entity.ChequePayment) error {
	const query = `
		INSERT INTO cheque_payments (payment_id, bank_id, cheque_no, cheque_date, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (payment_id) DO UPDATE
		SET bank_id = EXCLUDED.bank_id,
		    cheque_no = EXCLUDED.cheque_no,
		    cheque_date = EXCLUDED.cheque_date,
		    status = EXCLUDED.status,
		    updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		cheque.PaymentID, cheque.BankID, cheque.ChequeNo, dateOnly(cheque.ChequeDate), cheque.Status, cheque.UpdatedAt,
	)
	if err != nil {
		if isFKViolation(err) {
			return fmt.Errorf("cheque references: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("save cheque: %w", err)
	}
	return nil
}

// DeleteCheque quita el detalle de cheque; no falla si no existía.
func (r *PaymentRepo) DeleteCheque(ctx context.Context, paymentID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM cheque_payments WHERE payment_id = $1`, paymentID); err != nil {
		return fmt.Errorf("delete cheque: %w", err)
	}
	return nil
}
