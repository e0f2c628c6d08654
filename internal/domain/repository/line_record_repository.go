package repository

import (
	"context"

	"github.com/margiesol/mew-bad/internal/domain/entity"
)

// LineRecordRepository persistencia de renglones de pedido o de devolución.
// Cada implementación atiende un solo tipo (entity.LineKindOrder o LineKindReturn).
type LineRecordRepository interface {
	Create(ctx context.Context, record *entity.LineRecord) error
	GetByID(ctx context.Context, id string) (*entity.LineRecord, error)
	Update(ctx context.Context, record *entity.LineRecord) error
	Delete(ctx context.Context, id string) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.LineRecord, error)
}
