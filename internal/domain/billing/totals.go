// Package billing contiene el cálculo de los campos derivados de una factura:
// total general, abonos, saldo pendiente y estado de pago.
//
// Todas las funciones son puras: reciben los registros hijos de la factura y
// devuelven valores, sin tocar persistencia.
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus estado de pago derivado de una factura.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "Paid"
	StatusUnpaid  PaymentStatus = "Unpaid"
	StatusPartial PaymentStatus = "Partial"
)

// Valid indica si s es uno de los estados conocidos.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusUnpaid, StatusPartial:
		return true
	}
	return false
}

// LineAmount cantidad, precio unitario y tasa (0..1) de un renglón de pedido o devolución.
type LineAmount struct {
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
	Rate         decimal.Decimal
}

// Amount devuelve quantity × price × rate sin redondear.
func (l LineAmount) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.PricePerUnit).Mul(l.Rate)
}

// TotalsInput todo lo que necesita Recompute de una factura.
type TotalsInput struct {
	Discount decimal.Decimal
	Orders   []LineAmount
	Returns  []LineAmount
	Payments []decimal.Decimal
}

// Totals los cuatro campos derivados de la factura.
type Totals struct {
	GrandTotal       decimal.Decimal
	PartialPayment   decimal.Decimal
	RemainingBalance decimal.Decimal
	PaymentStatus    PaymentStatus
}

// Equal compara dos Totals por valor.
func (t Totals) Equal(o Totals) bool {
	return t.GrandTotal.Equal(o.GrandTotal) &&
		t.PartialPayment.Equal(o.PartialPayment) &&
		t.RemainingBalance.Equal(o.RemainingBalance) &&
		t.PaymentStatus == o.PaymentStatus
}

// Recompute calcula los campos derivados. Es una función total: los
// resultados negativos se recortan a cero en lugar de fallar.
func Recompute(in TotalsInput) Totals {
	orderTotal := sumLines(in.Orders)
	returnTotal := sumLines(in.Returns)

	grand := clampZero(round2(orderTotal.Sub(returnTotal).Sub(in.Discount)))

	paid := decimal.Zero
	for _, p := range in.Payments {
		paid = paid.Add(p)
	}
	partial := round2(paid)

	remaining := clampZero(round2(grand.Sub(partial)))

	return Totals{
		GrandTotal:       grand,
		PartialPayment:   partial,
		RemainingBalance: remaining,
		PaymentStatus:    DeriveStatus(grand, partial, remaining),
	}
}

// DeriveStatus aplica las reglas de estado en orden:
// total 0 → Paid, sin abonos → Unpaid, saldo 0 → Paid, resto → Partial.
func DeriveStatus(grand, partial, remaining decimal.Decimal) PaymentStatus {
	switch {
	case grand.IsZero():
		return StatusPaid
	case !partial.IsPositive():
		return StatusUnpaid
	case remaining.IsZero():
		return StatusPaid
	default:
		return StatusPartial
	}
}

// LineTotal total mostrado en un renglón: round2(quantity × price × rate).
func LineTotal(quantity, pricePerUnit, rate decimal.Decimal) decimal.Decimal {
	return round2(LineAmount{Quantity: quantity, PricePerUnit: pricePerUnit, Rate: rate}.Amount())
}

// PaymentDays días calendario entre la fecha de la factura y la del pago, mínimo 0.
func PaymentDays(invoiceDate, paymentDate time.Time) int {
	from := dateOnly(invoiceDate)
	to := dateOnly(paymentDate)
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func sumLines(lines []LineAmount) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount())
	}
	return total
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
