package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/billing"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/pkg/logger"
)

// RecomputeService recalcula y persiste los campos derivados de una factura.
type RecomputeService struct {
	tx    BillingTxRunner
	cache SummaryInvalidator
	log   *logger.Logger
}

// NewRecomputeService construye el servicio. cache puede ser nil.
func NewRecomputeService(tx BillingTxRunner, cache SummaryInvalidator, log *logger.Logger) *RecomputeService {
	if log == nil {
		log = logger.Nop()
	}
	return &RecomputeService{tx: tx, cache: cache, log: log.WithComponent("recompute")}
}

// RecomputeAndPersist bloquea la factura, recalcula sus totales con los
// renglones y abonos actuales y los guarda, todo en una transacción.
func (s *RecomputeService) RecomputeAndPersist(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := s.tx.RunBilling(ctx, func(repos Repos) error {
		inv, err := lockInvoice(ctx, repos, invoiceID)
		if err != nil {
			return err
		}
		if err := s.RecomputeInTx(ctx, repos, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx)
	return out, nil
}

// RecomputeInTx recalcula inv dentro de la transacción del caller.
// inv debe haberse leído con GetForUpdate en esa misma transacción.
// Además de los totales, refresca los días de cada abono.
func (s *RecomputeService) RecomputeInTx(ctx context.Context, repos Repos, inv *entity.Invoice) error {
	orders, err := repos.Orders.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return fmt.Errorf("recompute: listar pedidos: %w", err)
	}
	returns, err := repos.Returns.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return fmt.Errorf("recompute: listar devoluciones: %w", err)
	}
	payments, err := repos.Payments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return fmt.Errorf("recompute: listar abonos: %w", err)
	}

	in := billing.TotalsInput{
		Discount: inv.Discount,
		Orders:   make([]billing.LineAmount, 0, len(orders)),
		Returns:  make([]billing.LineAmount, 0, len(returns)),
		Payments: make([]decimal.Decimal, 0, len(payments)),
	}
	for _, o := range orders {
		in.Orders = append(in.Orders, o.Amount())
	}
	for _, r := range returns {
		in.Returns = append(in.Returns, r.Amount())
	}
	for _, p := range payments {
		in.Payments = append(in.Payments, p.Amount)
		if days := billing.PaymentDays(inv.Date, p.PaymentDate); days != p.Days {
			p.Days = days
			if err := repos.Payments.Update(ctx, p); err != nil {
				return fmt.Errorf("recompute: actualizar días del abono %d: %w", p.SequenceNo, err)
			}
		}
	}

	totals := billing.Recompute(in)
	if err := repos.Invoices.UpdateTotals(ctx, inv.ID, totals); err != nil {
		return fmt.Errorf("recompute: guardar totales: %w", err)
	}
	inv.ApplyTotals(totals)

	s.log.WithInvoice(inv.ID).Debug().
		Str("grand_total", totals.GrandTotal.StringFixed(2)).
		Str("partial_payment", totals.PartialPayment.StringFixed(2)).
		Str("remaining_balance", totals.RemainingBalance.StringFixed(2)).
		Str("payment_status", string(totals.PaymentStatus)).
		Msg("totales recalculados")
	return nil
}

// RecomputeAll recalcula todas las facturas vigentes, una transacción por factura.
// Devuelve cuántas se procesaron.
func (s *RecomputeService) RecomputeAll(ctx context.Context) (int, error) {
	var ids []string
	err := s.tx.RunBilling(ctx, func(repos Repos) error {
		var err error
		ids, err = repos.Invoices.ListActiveIDs(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("recompute: listar facturas: %w", err)
	}
	done := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := s.RecomputeAndPersist(ctx, id); err != nil {
			return done, fmt.Errorf("recompute %s: %w", id, err)
		}
		done++
	}
	return done, nil
}

// Invalidate descarta el resumen en caché; un fallo solo se registra.
func (s *RecomputeService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSummary(ctx); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo invalidar el resumen en caché")
	}
}

// lockInvoice lee la factura con bloqueo de fila; ErrNotFound si no existe.
func lockInvoice(ctx context.Context, repos Repos, invoiceID string) (*entity.Invoice, error) {
	inv, err := repos.Invoices.GetForUpdate(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// lockEditableInvoice como lockInvoice pero rechaza facturas eliminadas.
func lockEditableInvoice(ctx context.Context, repos Repos, invoiceID string) (*entity.Invoice, error) {
	inv, err := lockInvoice(ctx, repos, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.IsDeleted {
		return nil, domain.ErrInvoiceDeleted
	}
	return inv, nil
}
