package billing

import (
	"context"
	"fmt"
	"strings"
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

// InvoiceUseCase casos de uso de la cabecera de factura.
type InvoiceUseCase struct {
	tx        BillingTxRunner
	repos     Repos
	customers repository.CustomerRepository
	agents    repository.AgentRepository
	recompute *RecomputeService
	now       func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewInvoiceUseCase(
	tx BillingTxRunner,
	repos Repos,
	customers repository.CustomerRepository,
	agents repository.AgentRepository,
	recompute *RecomputeService,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		tx:        tx,
		repos:     repos,
		customers: customers,
		agents:    agents,
		recompute: recompute,
		now:       time.Now,
	}
}

// Create registra una factura sin renglones. Sus derivados parten del cálculo
// de una factura vacía (total 0, Paid).
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	discount := decimal.Zero
	if in.Discount != nil {
		discount = *in.Discount
	}
	if err := billing.ValidateDiscount(discount); err != nil {
		return nil, err
	}
	customer, err := uc.requireCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	agent, err := uc.optionalAgent(ctx, in.AgentID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		Number:         strings.TrimSpace(in.Number),
		Date:           date,
		CustomerID:     customer.ID,
		AgentID:        in.AgentID,
		PlateNo:        in.PlateNo,
		DeliveryStatus: in.DeliveryStatus,
		Terms:          in.Terms,
		Remarks:        in.Remarks,
		Discount:       discount,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if inv.DeliveryStatus == "" {
		inv.DeliveryStatus = entity.DeliveryPending
	}
	inv.ApplyTotals(billing.Recompute(billing.TotalsInput{Discount: discount}))

	err = uc.tx.RunBilling(ctx, func(repos Repos) error {
		return repos.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.recompute.Invalidate(ctx)

	out := toInvoiceResponse(inv)
	out.CustomerName = customer.Name
	if agent != nil {
		out.AgentName = agent.Name
	}
	return &out, nil
}

// Update modifica la cabecera y recalcula los totales en la misma transacción.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Discount != nil {
		if err := billing.ValidateDiscount(*in.Discount); err != nil {
			return nil, err
		}
	}
	var date time.Time
	if in.Date != nil {
		d, err := parseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}
	if in.CustomerID != nil {
		if _, err := uc.requireCustomer(ctx, *in.CustomerID); err != nil {
			return nil, err
		}
	}
	if in.AgentID != nil {
		if _, err := uc.optionalAgent(ctx, *in.AgentID); err != nil {
			return nil, err
		}
	}

	var out *entity.Invoice
	err := uc.tx.RunBilling(ctx, func(repos Repos) error {
		inv, err := lockEditableInvoice(ctx, repos, id)
		if err != nil {
			return err
		}
		if in.Number != nil {
			inv.Number = strings.TrimSpace(*in.Number)
		}
		if in.Date != nil {
			inv.Date = date
		}
		if in.CustomerID != nil {
			inv.CustomerID = *in.CustomerID
		}
		if in.AgentID != nil {
			inv.AgentID = *in.AgentID
		}
		if in.PlateNo != nil {
			inv.PlateNo = *in.PlateNo
		}
		if in.DeliveryStatus != nil {
			inv.DeliveryStatus = *in.DeliveryStatus
		}
		if in.Terms != nil {
			inv.Terms = *in.Terms
		}
		if in.Remarks != nil {
			inv.Remarks = *in.Remarks
		}
		if in.Discount != nil {
			inv.Discount = *in.Discount
		}
		inv.UpdatedAt = uc.now()
		if err := repos.Invoices.Update(ctx, inv); err != nil {
			return err
		}
		if err := uc.recompute.RecomputeInTx(ctx, repos, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.recompute.Invalidate(ctx)
	return uc.enrich(ctx, out), nil
}

// GetByID devuelve la factura con sus renglones y abonos.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceDetailResponse, error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	orders, err := uc.repos.Orders.ListByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	returns, err := uc.repos.Returns.ListByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := uc.repos.Payments.ListByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &dto.InvoiceDetailResponse{
		InvoiceResponse: *uc.enrich(ctx, inv),
		Orders:          make([]dto.LineRecordResponse, 0, len(orders)),
		Returns:         make([]dto.LineRecordResponse, 0, len(returns)),
		Payments:        make([]dto.PaymentResponse, 0, len(payments)),
	}
	for _, o := range orders {
		out.Orders = append(out.Orders, toLineRecordResponse(o))
	}
	for _, r := range returns {
		out.Returns = append(out.Returns, toLineRecordResponse(r))
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, toPaymentResponse(p))
	}
	return out, nil
}

// List lista facturas vigentes con filtros simples y paginación.
func (uc *InvoiceUseCase) List(ctx context.Context, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	filter := repository.InvoiceFilter{
		PaymentStatus:  in.PaymentStatus,
		DeliveryStatus: in.DeliveryStatus,
		CustomerID:     in.CustomerID,
		AgentID:        in.AgentID,
		NumberPrefix:   strings.TrimSpace(in.Number),
	}
	if in.From != "" {
		from, err := parseDate(in.From)
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := parseDate(in.To)
		if err != nil {
			return nil, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: el rango de fechas está invertido", domain.ErrInvalidInput)
	}

	list, total, err := uc.repos.Invoices.List(ctx, filter, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, inv := range list {
		out.Items = append(out.Items, toInvoiceResponse(inv))
	}
	return out, nil
}

// Delete marca la factura como eliminada. Es idempotente.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	err := uc.tx.RunBilling(ctx, func(repos Repos) error {
		inv, err := lockInvoice(ctx, repos, id)
		if err != nil {
			return err
		}
		if inv.IsDeleted {
			return nil
		}
		return repos.Invoices.SoftDelete(ctx, id, uc.now())
	})
	if err != nil {
		return err
	}
	uc.recompute.Invalidate(ctx)
	return nil
}

// Purge borra físicamente la factura con sus renglones y abonos.
func (uc *InvoiceUseCase) Purge(ctx context.Context, id string) error {
	err := uc.tx.RunBilling(ctx, func(repos Repos) error {
		if _, err := lockInvoice(ctx, repos, id); err != nil {
			return err
		}
		return repos.Invoices.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.recompute.Invalidate(ctx)
	return nil
}

// Recompute atiende una solicitud explícita de recálculo.
func (uc *InvoiceUseCase) Recompute(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.recompute.RecomputeAndPersist(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.enrich(ctx, inv), nil
}

func (uc *InvoiceUseCase) enrich(ctx context.Context, inv *entity.Invoice) *dto.InvoiceResponse {
	out := toInvoiceResponse(inv)
	if c, err := uc.customers.GetByID(ctx, inv.CustomerID); err == nil && c != nil {
		out.CustomerName = c.Name
	}
	if inv.AgentID != "" {
		if a, err := uc.agents.GetByID(ctx, inv.AgentID); err == nil && a != nil {
			out.AgentName = a.Name
		}
	}
	return &out
}

func (uc *InvoiceUseCase) requireCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := uc.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s no existe", domain.ErrInvalidInput, id)
	}
	return c, nil
}

func (uc *InvoiceUseCase) optionalAgent(ctx context.Context, id string) (*entity.Agent, error) {
	if id == "" {
		return nil, nil
	}
	a, err := uc.agents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: agente %s no existe", domain.ErrInvalidInput, id)
	}
	return a, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q inválida", domain.ErrInvalidInput, s)
	}
	return t, nil
}
