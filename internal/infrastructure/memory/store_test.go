package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margiesol/mew-bad/internal/application/billing"
	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/infrastructure/memory"
)

func seedInvoice(t *testing.T, s *memory.Store) (*entity.Invoice, *entity.Product) {
	t.Helper()
	ctx := context.Background()
	c := &entity.Customer{ID: "c-1", Code: "0001", Name: "Tienda Sol"}
	require.NoError(t, s.Customers().Create(ctx, c))
	p := &entity.Product{ID: "p-1", Code: "00001", ProductCode: "ABC", Status: entity.ProductActive}
	require.NoError(t, s.Products().Create(ctx, p))
	inv := &entity.Invoice{ID: "i-1", Number: "SI-1", CustomerID: c.ID, Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.RunBilling(ctx, func(r billing.Repos) error { return r.Invoices.Create(ctx, inv) }))
	return inv, p
}

func TestRunBilling_ErrorDescartaCambios(t *testing.T) {
	s := memory.New()
	inv, p := seedInvoice(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunBilling(ctx, func(r billing.Repos) error {
		require.NoError(t, r.Orders.Create(ctx, &entity.LineRecord{ID: "o-1", InvoiceID: inv.ID, ProductID: p.ID}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := s.Billing().Orders.ListByInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPayments_ConsecutivoPorFactura(t *testing.T) {
	s := memory.New()
	inv, _ := seedInvoice(t, s)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		p := &entity.PaymentRecord{ID: id, InvoiceID: inv.ID, Amount: decimal.NewFromInt(1)}
		require.NoError(t, s.RunBilling(ctx, func(r billing.Repos) error { return r.Payments.Create(ctx, p) }))
	}
	require.NoError(t, s.RunBilling(ctx, func(r billing.Repos) error { return r.Payments.Delete(ctx, "c") }))
	p := &entity.PaymentRecord{ID: "d", InvoiceID: inv.ID, Amount: decimal.NewFromInt(1)}
	require.NoError(t, s.RunBilling(ctx, func(r billing.Repos) error { return r.Payments.Create(ctx, p) }))

	assert.Equal(t, 3, p.SequenceNo)
	list, err := s.Billing().Payments.ListByInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{list[0].SequenceNo, list[1].SequenceNo, list[2].SequenceNo})
}

func TestInvoiceDelete_BorraEnCascada(t *testing.T) {
	s := memory.New()
	inv, p := seedInvoice(t, s)
	ctx := context.Background()
	require.NoError(t, s.Banks().Create(ctx, &entity.Bank{ID: "b-1", Code: "0001"}))

	require.NoError(t, s.RunBilling(ctx, func(r billing.Repos) error {
		if err := r.Orders.Create(ctx, &entity.LineRecord{ID: "o-1", InvoiceID: inv.ID, ProductID: p.ID}); err != nil {
			return err
		}
		if err := r.Payments.Create(ctx, &entity.PaymentRecord{ID: "pay-1", InvoiceID: inv.ID}); err != nil {
			return err
		}
		return r.Payments.SaveCheque(ctx, &entity.ChequePayment{PaymentID: "pay-1", BankID: "b-1"})
	}))
	require.ErrorIs(t, s.Banks().Delete(ctx, "b-1"), domain.ErrConflict)
	require.ErrorIs(t, s.Products().Delete(ctx, p.ID), domain.ErrConflict)

	require.NoError(t, s.RunBilling(ctx, func(r billing.Repos) error { return r.Invoices.Delete(ctx, inv.ID) }))

	got, err := s.Billing().Payments.GetByID(ctx, "pay-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, s.Banks().Delete(ctx, "b-1"))
	assert.NoError(t, s.Products().Delete(ctx, p.ID))
}

func TestLineRecords_ProductoUnicoPorFactura(t *testing.T) {
	s := memory.New()
	inv, p := seedInvoice(t, s)
	ctx := context.Background()

	err := s.RunBilling(ctx, func(r billing.Repos) error {
		if err := r.Orders.Create(ctx, &entity.LineRecord{ID: "o-1", InvoiceID: inv.ID, ProductID: p.ID}); err != nil {
			return err
		}
		return r.Orders.Create(ctx, &entity.LineRecord{ID: "o-2", InvoiceID: inv.ID, ProductID: p.ID})
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	// el mismo producto sí puede ir como devolución
	err = s.RunBilling(ctx, func(r billing.Repos) error {
		if err := r.Orders.Create(ctx, &entity.LineRecord{ID: "o-1", InvoiceID: inv.ID, ProductID: p.ID}); err != nil {
			return err
		}
		return r.Returns.Create(ctx, &entity.LineRecord{ID: "r-1", InvoiceID: inv.ID, ProductID: p.ID})
	})
	assert.NoError(t, err)
}

func TestLastCode_OrdenaPorLongitud(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	for i, code := range []string{"9999", "10000", "0042"} {
		require.NoError(t, s.Agents().Create(ctx, &entity.Agent{ID: string(rune('a' + i)), Code: code}))
	}
	last, err := s.Agents().LastCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10000", last)
}

func TestCustomerDelete_ConFacturasEsConflicto(t *testing.T) {
	s := memory.New()
	inv, _ := seedInvoice(t, s)
	ctx := context.Background()

	assert.ErrorIs(t, s.Customers().Delete(ctx, inv.CustomerID), domain.ErrConflict)
}
