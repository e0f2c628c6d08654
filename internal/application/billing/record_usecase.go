package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/application/validation"
	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/billing"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/repository"
)

// RecordUseCase alta, edición y baja de renglones de pedido y devolución.
// Cada mutación recalcula la factura dentro de la misma transacción.
type RecordUseCase struct {
	tx        BillingTxRunner
	repos     Repos
	products  repository.ProductRepository
	recompute *RecomputeService
	now       func() time.Time
}

// NewRecordUseCase construye el caso de uso.
func NewRecordUseCase(tx BillingTxRunner, repos Repos, products repository.ProductRepository, recompute *RecomputeService) *RecordUseCase {
	return &RecordUseCase{tx: tx, repos: repos, products: products, recompute: recompute, now: time.Now}
}

// Add agrega un renglón del tipo kind (entity.LineKindOrder o LineKindReturn).
func (uc *RecordUseCase) Add(ctx context.Context, invoiceID, kind string, in dto.LineRecordRequest) (*dto.LineRecordMutationResponse, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	record, err := uc.buildRecord(ctx, kind, in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	record.ID = uuid.New().String()
	record.InvoiceID = invoiceID
	record.CreatedAt = now
	record.UpdatedAt = now

	var inv *entity.Invoice
	err = uc.tx.RunBilling(ctx, func(repos Repos) error {
		var err error
		if inv, err = lockEditableInvoice(ctx, repos, invoiceID); err != nil {
			return err
		}
		if err := repos.Lines(kind).Create(ctx, record); err != nil {
			return err
		}
		return uc.recompute.RecomputeInTx(ctx, repos, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.recompute.Invalidate(ctx)
	resp := toLineRecordResponse(record)
	return &dto.LineRecordMutationResponse{Record: &resp, Invoice: toInvoiceResponse(inv)}, nil
}

// Update reemplaza producto, cantidad, precio y tasa de un renglón existente.
func (uc *RecordUseCase) Update(ctx context.Context, invoiceID, kind, recordID string, in dto.LineRecordRequest) (*dto.LineRecordMutationResponse, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	changes, err := uc.buildRecord(ctx, kind, in)
	if err != nil {
		return nil, err
	}

	var (
		inv    *entity.Invoice
		record *entity.LineRecord
	)
	err = uc.tx.RunBilling(ctx, func(repos Repos) error {
		var err error
		if inv, err = lockEditableInvoice(ctx, repos, invoiceID); err != nil {
			return err
		}
		if record, err = findLine(ctx, repos.Lines(kind), invoiceID, recordID); err != nil {
			return err
		}
		record.ProductID = changes.ProductID
		record.Quantity = changes.Quantity
		record.PricePerUnit = changes.PricePerUnit
		record.Rate = changes.Rate
		record.RefreshTotal()
		record.UpdatedAt = uc.now()
		if err := repos.Lines(kind).Update(ctx, record); err != nil {
			return err
		}
		return uc.recompute.RecomputeInTx(ctx, repos, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.recompute.Invalidate(ctx)
	resp := toLineRecordResponse(record)
	return &dto.LineRecordMutationResponse{Record: &resp, Invoice: toInvoiceResponse(inv)}, nil
}

// Delete borra un renglón y devuelve la factura recalculada.
func (uc *RecordUseCase) Delete(ctx context.Context, invoiceID, kind, recordID string) (*dto.LineRecordMutationResponse, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	var inv *entity.Invoice
	err := uc.tx.RunBilling(ctx, func(repos Repos) error {
		var err error
		if inv, err = lockEditableInvoice(ctx, repos, invoiceID); err != nil {
			return err
		}
		if _, err := findLine(ctx, repos.Lines(kind), invoiceID, recordID); err != nil {
			return err
		}
		if err := repos.Lines(kind).Delete(ctx, recordID); err != nil {
			return err
		}
		return uc.recompute.RecomputeInTx(ctx, repos, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.recompute.Invalidate(ctx)
	return &dto.LineRecordMutationResponse{Invoice: toInvoiceResponse(inv)}, nil
}

// List devuelve los renglones del tipo kind de una factura.
func (uc *RecordUseCase) List(ctx context.Context, invoiceID, kind string) ([]dto.LineRecordResponse, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	inv, err := uc.repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repos.Lines(kind).ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LineRecordResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toLineRecordResponse(r))
	}
	return out, nil
}

// buildRecord valida la entrada y completa precio y tasa por defecto.
// Solo se aceptan pedidos de productos activos.
func (uc *RecordUseCase) buildRecord(ctx context.Context, kind string, in dto.LineRecordRequest) (*entity.LineRecord, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s no existe", domain.ErrInvalidInput, in.ProductID)
	}
	if kind == entity.LineKindOrder && product.Status != entity.ProductActive {
		return nil, fmt.Errorf("%w: el producto %s está inactivo", domain.ErrConflict, product.ProductCode)
	}

	price := product.Price
	if in.PricePerUnit != nil {
		price = *in.PricePerUnit
	}
	rate := decimal.NewFromInt(1)
	if in.Rate != nil {
		rate = *in.Rate
	}
	if err := billing.ValidateLine(in.Quantity, price, rate); err != nil {
		return nil, err
	}
	r := &entity.LineRecord{
		ProductID:    product.ID,
		Kind:         kind,
		Quantity:     in.Quantity,
		PricePerUnit: price,
		Rate:         rate,
	}
	r.RefreshTotal()
	return r, nil
}

func findLine(ctx context.Context, repo repository.LineRecordRepository, invoiceID, recordID string) (*entity.LineRecord, error) {
	r, err := repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if r == nil || r.InvoiceID != invoiceID {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func checkKind(kind string) error {
	if kind != entity.LineKindOrder && kind != entity.LineKindReturn {
		return fmt.Errorf("%w: tipo de renglón %q", domain.ErrInvalidInput, kind)
	}
	return nil
}
