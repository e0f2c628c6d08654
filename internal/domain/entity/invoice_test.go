package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/margiesol/mew-bad/internal/domain/entity"
)

func TestInvoice_IsOverdue_ComparaPorDia(t *testing.T) {
	inv := &entity.Invoice{
		Date:             time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Terms:            30,
		RemainingBalance: decimal.NewFromInt(100),
	}

	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), inv.DueDate())
	assert.False(t, inv.IsOverdue(time.Date(2026, 3, 31, 18, 0, 0, 0, time.UTC)))
	assert.True(t, inv.IsOverdue(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)))
}

func TestInvoice_IsOverdue_SinSaldoNuncaVence(t *testing.T) {
	inv := &entity.Invoice{
		Date:             time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		RemainingBalance: decimal.Zero,
	}
	assert.False(t, inv.IsOverdue(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLineRecord_RefreshTotal(t *testing.T) {
	rec := &entity.LineRecord{
		Quantity:     decimal.NewFromInt(3),
		PricePerUnit: decimal.RequireFromString("3.335"),
		Rate:         decimal.NewFromInt(1),
	}
	rec.RefreshTotal()
	assert.Equal(t, "10.01", rec.TotalPrice.StringFixed(2))
}
