package repository

import (
	"context"

	"github.com/margiesol/mew-bad/internal/domain/entity"
)

// PaymentRepository persistencia de abonos y de su detalle de cheque.
type PaymentRepository interface {
	// Create asigna SequenceNo = último consecutivo de la factura + 1.
	Create(ctx context.Context, payment *entity.PaymentRecord) error
	GetByID(ctx context.Context, id string) (*entity.PaymentRecord, error)
	Update(ctx context.Context, payment *entity.PaymentRecord) error
	Delete(ctx context.Context, id string) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.PaymentRecord, error)
	SaveCheque(ctx context.Context, cheque *entity.ChequePayment) error
	DeleteCheque(ctx context.Context, paymentID string) error
}
