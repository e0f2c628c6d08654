package billing

import (
	"context"
	"fmt"

	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/repository"
)

// PDFUseCase orquesta la impresión de una factura.
type PDFUseCase struct {
	repos     Repos
	customers repository.CustomerRepository
	agents    repository.AgentRepository
	products  repository.ProductRepository
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	repos Repos,
	customers repository.CustomerRepository,
	agents repository.AgentRepository,
	products repository.ProductRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		repos:     repos,
		customers: customers,
		agents:    agents,
		products:  products,
		generator: generator,
	}
}

// DownloadInvoicePDF reúne la factura, el cliente, los renglones y los abonos y
// genera el PDF. Devuelve los bytes y el nombre de archivo sugerido.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	if inv == nil || inv.IsDeleted {
		return nil, "", domain.ErrNotFound
	}

	customer, err := uc.customers.GetByID(ctx, inv.CustomerID)
	if err != nil {
		return nil, "", err
	}
	if customer == nil {
		return nil, "", fmt.Errorf("pdf: cliente %s de la factura %s: %w", inv.CustomerID, inv.Number, domain.ErrNotFound)
	}
	doc := &PrintableInvoice{Invoice: inv, Customer: customer}
	if inv.AgentID != "" {
		if doc.Agent, err = uc.agents.GetByID(ctx, inv.AgentID); err != nil {
			return nil, "", err
		}
	}

	orders, err := uc.repos.Orders.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, "", err
	}
	returns, err := uc.repos.Returns.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, "", err
	}
	if doc.Payments, err = uc.repos.Payments.ListByInvoice(ctx, inv.ID); err != nil {
		return nil, "", err
	}

	// Cache local de productos: un mismo producto puede aparecer como pedido y devolución.
	products := map[string]*entity.Product{}
	enrich := func(lines []*entity.LineRecord) []PrintableLine {
		out := make([]PrintableLine, 0, len(lines))
		for _, l := range lines {
			p, ok := products[l.ProductID]
			if !ok {
				p, _ = uc.products.GetByID(ctx, l.ProductID)
				products[l.ProductID] = p
			}
			pl := PrintableLine{LineRecord: *l, Description: "Producto " + l.ProductID, Unit: entity.DefaultUnit}
			if p != nil {
				pl.ProductCode = p.ProductCode
				pl.Description = p.Description
				pl.Unit = p.Unit
			}
			out = append(out, pl)
		}
		return out
	}
	doc.Orders = enrich(orders)
	doc.Returns = enrich(returns)

	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura-%s.pdf", inv.Number), nil
}
