package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/billing"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository    = (*invoiceRepo)(nil)
	_ repository.LineRecordRepository = (*lineRepo)(nil)
	_ repository.PaymentRepository    = (*paymentRepo)(nil)
)

// ── Facturas ────────────────────────────────────────────────────────────────

type invoiceRepo struct{ v view }

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.v.write(func(t *tables) error {
		if err := checkInvoiceRefs(t, inv); err != nil {
			return err
		}
		for _, other := range t.invoices {
			if other.Number == inv.Number {
				return domain.ErrDuplicate
			}
		}
		t.invoices[inv.ID] = *inv
		return nil
	})
}

func checkInvoiceRefs(t *tables, inv *entity.Invoice) error {
	if _, ok := t.customers[inv.CustomerID]; !ok {
		return domain.ErrNotFound
	}
	if inv.AgentID != "" {
		if _, ok := t.agents[inv.AgentID]; !ok {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.v.read(func(t *tables) error {
		if inv, ok := t.invoices[id]; ok {
			out = &inv
		}
		return nil
	})
	return out, err
}

// GetForUpdate no necesita bloqueo propio: RunBilling ya serializa.
func (r *invoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	return r.v.write(func(t *tables) error {
		cur, ok := t.invoices[inv.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if err := checkInvoiceRefs(t, inv); err != nil {
			return err
		}
		for id, other := range t.invoices {
			if id != inv.ID && other.Number == inv.Number {
				return domain.ErrDuplicate
			}
		}
		cur.Number = inv.Number
		cur.Date = inv.Date
		cur.CustomerID = inv.CustomerID
		cur.AgentID = inv.AgentID
		cur.PlateNo = inv.PlateNo
		cur.DeliveryStatus = inv.DeliveryStatus
		cur.Terms = inv.Terms
		cur.Remarks = inv.Remarks
		cur.Discount = inv.Discount
		cur.UpdatedAt = inv.UpdatedAt
		t.invoices[inv.ID] = cur
		return nil
	})
}

func (r *invoiceRepo) UpdateTotals(_ context.Context, id string, totals billing.Totals) error {
	return r.v.write(func(t *tables) error {
		cur, ok := t.invoices[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.ApplyTotals(totals)
		t.invoices[id] = cur
		return nil
	})
}

func (r *invoiceRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	return r.v.write(func(t *tables) error {
		cur, ok := t.invoices[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.IsDeleted = true
		if cur.DeletedAt == nil {
			cur.DeletedAt = &at
		}
		cur.UpdatedAt = at
		t.invoices[id] = cur
		return nil
	})
}

func (r *invoiceRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(t *tables) error {
		if _, ok := t.invoices[id]; !ok {
			return domain.ErrNotFound
		}
		delete(t.invoices, id)
		for _, lines := range []map[string]entity.LineRecord{t.orders, t.returns} {
			for rid, rec := range lines {
				if rec.InvoiceID == id {
					delete(lines, rid)
				}
			}
		}
		for pid, p := range t.payments {
			if p.InvoiceID == id {
				delete(t.payments, pid)
				delete(t.cheques, pid)
			}
		}
		return nil
	})
}

func (r *invoiceRepo) List(_ context.Context, f repository.InvoiceFilter, limit, offset int) ([]*entity.Invoice, int, error) {
	var all []*entity.Invoice
	err := r.v.read(func(t *tables) error {
		for _, inv := range t.invoices {
			if matchInvoice(inv, f) {
				all = append(all, &inv)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	slices.SortFunc(all, func(a, b *entity.Invoice) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.Number, a.Number)
	})
	return page(all, limit, offset), len(all), nil
}

func matchInvoice(inv entity.Invoice, f repository.InvoiceFilter) bool {
	switch {
	case inv.IsDeleted && !f.IncludeDeleted:
		return false
	case f.PaymentStatus != "" && string(inv.PaymentStatus) != f.PaymentStatus:
		return false
	case f.DeliveryStatus != "" && inv.DeliveryStatus != f.DeliveryStatus:
		return false
	case f.CustomerID != "" && inv.CustomerID != f.CustomerID:
		return false
	case f.AgentID != "" && inv.AgentID != f.AgentID:
		return false
	case f.NumberPrefix != "" && !strings.HasPrefix(inv.Number, f.NumberPrefix):
		return false
	case f.From != nil && inv.Date.Before(dateOnly(*f.From)):
		return false
	case f.To != nil && inv.Date.After(dateOnly(*f.To)):
		return false
	}
	return true
}

func (r *invoiceRepo) ListActiveIDs(_ context.Context) ([]string, error) {
	var active []entity.Invoice
	err := r.v.read(func(t *tables) error {
		for _, inv := range t.invoices {
			if !inv.IsDeleted {
				active = append(active, inv)
			}
		}
		return nil
	})
	slices.SortFunc(active, func(a, b entity.Invoice) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Number, b.Number)
	})
	ids := make([]string, 0, len(active))
	for _, inv := range active {
		ids = append(ids, inv.ID)
	}
	return ids, err
}

// ── Renglones ───────────────────────────────────────────────────────────────

type lineRepo struct {
	v    view
	kind string
}

func (r *lineRepo) table(t *tables) map[string]entity.LineRecord {
	if r.kind == entity.LineKindReturn {
		return t.returns
	}
	return t.orders
}

func (r *lineRepo) Create(_ context.Context, rec *entity.LineRecord) error {
	return r.v.write(func(t *tables) error {
		if err := checkLineRefs(t, rec); err != nil {
			return err
		}
		lines := r.table(t)
		for _, other := range lines {
			if other.InvoiceID == rec.InvoiceID && other.ProductID == rec.ProductID {
				return domain.ErrDuplicate
			}
		}
		rec.Kind = r.kind
		lines[rec.ID] = *rec
		return nil
	})
}

func checkLineRefs(t *tables, rec *entity.LineRecord) error {
	if _, ok := t.invoices[rec.InvoiceID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := t.products[rec.ProductID]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (r *lineRepo) GetByID(_ context.Context, id string) (*entity.LineRecord, error) {
	var out *entity.LineRecord
	err := r.v.read(func(t *tables) error {
		if rec, ok := r.table(t)[id]; ok {
			out = &rec
		}
		return nil
	})
	return out, err
}

func (r *lineRepo) Update(_ context.Context, rec *entity.LineRecord) error {
	return r.v.write(func(t *tables) error {
		lines := r.table(t)
		cur, ok := lines[rec.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if _, ok := t.products[rec.ProductID]; !ok {
			return domain.ErrNotFound
		}
		for id, other := range lines {
			if id != rec.ID && other.InvoiceID == cur.InvoiceID && other.ProductID == rec.ProductID {
				return domain.ErrDuplicate
			}
		}
		cur.ProductID = rec.ProductID
		cur.Quantity = rec.Quantity
		cur.PricePerUnit = rec.PricePerUnit
		cur.Rate = rec.Rate
		cur.TotalPrice = rec.TotalPrice
		cur.UpdatedAt = rec.UpdatedAt
		lines[rec.ID] = cur
		return nil
	})
}

func (r *lineRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(t *tables) error {
		lines := r.table(t)
		if _, ok := lines[id]; !ok {
			return domain.ErrNotFound
		}
		delete(lines, id)
		return nil
	})
}

func (r *lineRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.LineRecord, error) {
	var list []*entity.LineRecord
	err := r.v.read(func(t *tables) error {
		for _, rec := range r.table(t) {
			if rec.InvoiceID == invoiceID {
				list = append(list, &rec)
			}
		}
		return nil
	})
	slices.SortFunc(list, func(a, b *entity.LineRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return list, err
}

// ── Abonos ──────────────────────────────────────────────────────────────────

type paymentRepo struct{ v view }

func withCheque(t *tables, p entity.PaymentRecord) *entity.PaymentRecord {
	p.Cheque = nil
	if c, ok := t.cheques[p.ID]; ok {
		p.Cheque = &c
	}
	return &p
}

func (r *paymentRepo) Create(_ context.Context, p *entity.PaymentRecord) error {
	return r.v.write(func(t *tables) error {
		if _, ok := t.invoices[p.InvoiceID]; !ok {
			return domain.ErrNotFound
		}
		seq := 0
		for _, other := range t.payments {
			if other.InvoiceID == p.InvoiceID && other.SequenceNo > seq {
				seq = other.SequenceNo
			}
		}
		p.SequenceNo = seq + 1
		stored := *p
		stored.Cheque = nil
		t.payments[p.ID] = stored
		return nil
	})
}

func (r *paymentRepo) GetByID(_ context.Context, id string) (*entity.PaymentRecord, error) {
	var out *entity.PaymentRecord
	err := r.v.read(func(t *tables) error {
		if p, ok := t.payments[id]; ok {
			out = withCheque(t, p)
		}
		return nil
	})
	return out, err
}

func (r *paymentRepo) Update(_ context.Context, p *entity.PaymentRecord) error {
	return r.v.write(func(t *tables) error {
		cur, ok := t.payments[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.PaymentDate = p.PaymentDate
		cur.Amount = p.Amount
		cur.PaymentType = p.PaymentType
		cur.Days = p.Days
		cur.UpdatedAt = p.UpdatedAt
		t.payments[p.ID] = cur
		return nil
	})
}

func (r *paymentRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(t *tables) error {
		if _, ok := t.payments[id]; !ok {
			return domain.ErrNotFound
		}
		delete(t.payments, id)
		delete(t.cheques, id)
		return nil
	})
}

func (r *paymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.PaymentRecord, error) {
	var list []*entity.PaymentRecord
	err := r.v.read(func(t *tables) error {
		for _, p := range t.payments {
			if p.InvoiceID == invoiceID {
				list = append(list, withCheque(t, p))
			}
		}
		return nil
	})
	slices.SortFunc(list, func(a, b *entity.PaymentRecord) int { return cmp.Compare(a.SequenceNo, b.SequenceNo) })
	return list, err
}

func (r *paymentRepo) SaveCheque(_ context.Context, c *entity.ChequePayment) error {
	return r.v.write(func(t *tables) error {
		if _, ok := t.payments[c.PaymentID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := t.banks[c.BankID]; !ok {
			return domain.ErrNotFound
		}
		t.cheques[c.PaymentID] = *c
		return nil
	})
}

func (r *paymentRepo) DeleteCheque(_ context.Context, paymentID string) error {
	return r.v.write(func(t *tables) error {
		delete(t.cheques, paymentID)
		return nil
	})
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
