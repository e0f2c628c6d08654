package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/margiesol/mew-bad/internal/domain/billing"
)

// Tipos de renglón de una factura.
const (
	LineKindOrder  = "order"
	LineKindReturn = "return"
)

// LineRecord renglón de pedido (OrderRecord) o devolución (ReturnRecord).
// El par (InvoiceID, ProductID) es único por tipo.
type LineRecord struct {
	ID           string
	InvoiceID    string
	ProductID    string
	Kind         string
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
	Rate         decimal.Decimal // 0..1
	TotalPrice   decimal.Decimal // derivado: round2(quantity × price × rate)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Amount datos del renglón para el cálculo de totales.
func (r *LineRecord) Amount() billing.LineAmount {
	return billing.LineAmount{Quantity: r.Quantity, PricePerUnit: r.PricePerUnit, Rate: r.Rate}
}

// RefreshTotal recalcula TotalPrice.
func (r *LineRecord) RefreshTotal() {
	r.TotalPrice = billing.LineTotal(r.Quantity, r.PricePerUnit, r.Rate)
}
