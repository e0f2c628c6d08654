package memory

import (
	"context"
	"time"

	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo agrega sobre las facturas vigentes en memoria.
type DashboardRepo struct{ v view }

func (r *DashboardRepo) each(from, to *time.Time, fn func(inv entity.Invoice)) error {
	return r.v.read(func(t *tables) error {
		for _, inv := range t.invoices {
			if inv.IsDeleted {
				continue
			}
			if from != nil && inv.Date.Before(dateOnly(*from)) {
				continue
			}
			if to != nil && inv.Date.After(dateOnly(*to)) {
				continue
			}
			fn(inv)
		}
		return nil
	})
}

func (r *DashboardRepo) SalesTotals(_ context.Context, from, to *time.Time) (repository.SalesTotals, error) {
	var out repository.SalesTotals
	err := r.each(from, to, func(inv entity.Invoice) {
		out.InvoiceCount++
		out.TotalSales = out.TotalSales.Add(inv.GrandTotal)
		out.TotalReceived = out.TotalReceived.Add(inv.PartialPayment)
		out.TotalOutstanding = out.TotalOutstanding.Add(inv.RemainingBalance)
	})
	return out, err
}

func (r *DashboardRepo) CountByPaymentStatus(_ context.Context, from, to *time.Time) (map[string]int, error) {
	out := map[string]int{}
	err := r.each(from, to, func(inv entity.Invoice) { out[string(inv.PaymentStatus)]++ })
	return out, err
}

func (r *DashboardRepo) CountByDeliveryStatus(_ context.Context, from, to *time.Time) (map[string]int, error) {
	out := map[string]int{}
	err := r.each(from, to, func(inv entity.Invoice) { out[inv.DeliveryStatus]++ })
	return out, err
}

func (r *DashboardRepo) CountOverdue(_ context.Context, asOf time.Time) (int, error) {
	n := 0
	err := r.each(nil, nil, func(inv entity.Invoice) {
		if inv.IsOverdue(asOf) {
			n++
		}
	})
	return n, err
}
