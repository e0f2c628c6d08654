package repository

import (
	"context"
	"time"

	"github.com/margiesol/mew-bad/internal/domain/billing"
	"github.com/margiesol/mew-bad/internal/domain/entity"
)

// InvoiceFilter criterios del listado de facturas. Campos vacíos no filtran.
type InvoiceFilter struct {
	PaymentStatus  string
	DeliveryStatus string
	CustomerID     string
	AgentID        string
	NumberPrefix   string
	From           *time.Time
	To             *time.Time
	IncludeDeleted bool
}

// InvoiceRepository define el puerto de persistencia para la cabecera de factura.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate bloquea la fila de la factura hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	// Update actualiza los campos de cabecera; no toca los derivados.
	Update(ctx context.Context, invoice *entity.Invoice) error
	// UpdateTotals escribe únicamente los cuatro campos derivados.
	UpdateTotals(ctx context.Context, id string, totals billing.Totals) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// Delete borra la factura y, en cascada, sus renglones y abonos.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter InvoiceFilter, limit, offset int) ([]*entity.Invoice, int, error)
	ListActiveIDs(ctx context.Context) ([]string, error)
}
