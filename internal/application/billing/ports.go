package billing

import (
	"context"

	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/repository"
)

// Repos repositorios de facturación. Dentro de RunBilling quedan atados a la transacción.
type Repos struct {
	Invoices repository.InvoiceRepository
	Orders   repository.LineRecordRepository
	Returns  repository.LineRecordRepository
	Payments repository.PaymentRepository
}

// Lines devuelve el repositorio del tipo de renglón indicado.
func (r Repos) Lines(kind string) repository.LineRecordRepository {
	if kind == entity.LineKindReturn {
		return r.Returns
	}
	return r.Orders
}

// BillingTxRunner ejecuta fn dentro de una transacción con los repos de facturación.
// Si fn devuelve error se hace rollback.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(repos Repos) error) error
}

// SummaryInvalidator descarta el resumen de ventas en caché cuando cambian los totales.
type SummaryInvalidator interface {
	InvalidateSummary(ctx context.Context) error
}

// PrintableLine renglón de la factura enriquecido para impresión.
type PrintableLine struct {
	entity.LineRecord
	ProductCode string
	Description string
	Unit        string
}

// PrintableInvoice todo lo que se imprime en la factura.
type PrintableInvoice struct {
	Invoice  *entity.Invoice
	Customer *entity.Customer
	Agent    *entity.Agent // puede ser nil
	Orders   []PrintableLine
	Returns  []PrintableLine
	Payments []*entity.PaymentRecord
}

// InvoicePDFGenerator genera la representación impresa de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc *PrintableInvoice) ([]byte, error)
}
