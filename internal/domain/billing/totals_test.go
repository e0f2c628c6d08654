package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/billing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(qty, price, rate string) billing.LineAmount {
	return billing.LineAmount{Quantity: dec(qty), PricePerUnit: dec(price), Rate: dec(rate)}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msg ...interface{}) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), msg...)
}

// ── Escenario base: pedido, devolución, descuento y abonos ───────────────────

func TestRecompute_FacturaVacia(t *testing.T) {
	got := billing.Recompute(billing.TotalsInput{})
	assertMoney(t, "0.00", got.GrandTotal)
	assertMoney(t, "0.00", got.PartialPayment)
	assertMoney(t, "0.00", got.RemainingBalance)
	assert.Equal(t, billing.StatusPaid, got.PaymentStatus)
}

func TestRecompute_Escenarios(t *testing.T) {
	order := line("10", "5.00", "1.00")
	ret := line("2", "5.00", "1.00")

	tests := []struct {
		name          string
		in            billing.TotalsInput
		wantGrand     string
		wantPartial   string
		wantRemaining string
		wantStatus    billing.PaymentStatus
	}{
		{
			name:          "un pedido sin descuento",
			in:            billing.TotalsInput{Orders: []billing.LineAmount{order}},
			wantGrand:     "50.00",
			wantPartial:   "0.00",
			wantRemaining: "50.00",
			wantStatus:    billing.StatusUnpaid,
		},
		{
			name:          "pedido con devolución",
			in:            billing.TotalsInput{Orders: []billing.LineAmount{order}, Returns: []billing.LineAmount{ret}},
			wantGrand:     "40.00",
			wantPartial:   "0.00",
			wantRemaining: "40.00",
			wantStatus:    billing.StatusUnpaid,
		},
		{
			name: "pedido, devolución y descuento",
			in: billing.TotalsInput{
				Orders: []billing.LineAmount{order}, Returns: []billing.LineAmount{ret}, Discount: dec("10.00"),
			},
			wantGrand:     "30.00",
			wantPartial:   "0.00",
			wantRemaining: "30.00",
			wantStatus:    billing.StatusUnpaid,
		},
		{
			name: "pago completo",
			in: billing.TotalsInput{
				Orders: []billing.LineAmount{order}, Returns: []billing.LineAmount{ret}, Discount: dec("10.00"),
				Payments: []decimal.Decimal{dec("30.00")},
			},
			wantGrand:     "30.00",
			wantPartial:   "30.00",
			wantRemaining: "0.00",
			wantStatus:    billing.StatusPaid,
		},
		{
			name: "pago parcial",
			in: billing.TotalsInput{
				Orders: []billing.LineAmount{order}, Returns: []billing.LineAmount{ret}, Discount: dec("10.00"),
				Payments: []decimal.Decimal{dec("10.00")},
			},
			wantGrand:     "30.00",
			wantPartial:   "10.00",
			wantRemaining: "20.00",
			wantStatus:    billing.StatusPartial,
		},
		{
			name: "sobrepago deja saldo en cero",
			in: billing.TotalsInput{
				Orders:   []billing.LineAmount{order},
				Payments: []decimal.Decimal{dec("40.00"), dec("20.00")},
			},
			wantGrand:     "50.00",
			wantPartial:   "60.00",
			wantRemaining: "0.00",
			wantStatus:    billing.StatusPaid,
		},
		{
			name: "devoluciones mayores que pedidos se recortan a cero",
			in: billing.TotalsInput{
				Orders:  []billing.LineAmount{line("1", "5.00", "1")},
				Returns: []billing.LineAmount{line("3", "5.00", "1")},
			},
			wantGrand:     "0.00",
			wantPartial:   "0.00",
			wantRemaining: "0.00",
			wantStatus:    billing.StatusPaid,
		},
		{
			name: "tasa parcial y redondeo",
			in: billing.TotalsInput{
				Orders: []billing.LineAmount{line("3", "3.335", "0.5"), line("1", "0.005", "1")},
			},
			// 5.0025 + 0.005 = 5.0075 → 5.01
			wantGrand:     "5.01",
			wantPartial:   "0.00",
			wantRemaining: "5.01",
			wantStatus:    billing.StatusUnpaid,
		},
		{
			name: "tasa cero anula el renglón",
			in: billing.TotalsInput{
				Orders: []billing.LineAmount{line("10", "5.00", "0")},
			},
			wantGrand:     "0.00",
			wantPartial:   "0.00",
			wantRemaining: "0.00",
			wantStatus:    billing.StatusPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := billing.Recompute(tt.in)
			assertMoney(t, tt.wantGrand, got.GrandTotal, "grand_total")
			assertMoney(t, tt.wantPartial, got.PartialPayment, "partial_payment")
			assertMoney(t, tt.wantRemaining, got.RemainingBalance, "remaining_balance")
			assert.Equal(t, tt.wantStatus, got.PaymentStatus)
		})
	}
}

// ── Propiedades ──────────────────────────────────────────────────────────────

func TestRecompute_Idempotente(t *testing.T) {
	in := billing.TotalsInput{
		Discount: dec("2.50"),
		Orders:   []billing.LineAmount{line("4", "12.75", "0.9"), line("1", "99.99", "1")},
		Returns:  []billing.LineAmount{line("1", "12.75", "0.9")},
		Payments: []decimal.Decimal{dec("50"), dec("0.01")},
	}
	first := billing.Recompute(in)
	second := billing.Recompute(in)
	assert.True(t, first.Equal(second))
}

func TestRecompute_Monotonia(t *testing.T) {
	base := billing.TotalsInput{
		Discount: dec("5"),
		Orders:   []billing.LineAmount{line("2", "10", "1")},
		Payments: []decimal.Decimal{dec("3")},
	}
	before := billing.Recompute(base)

	extras := []billing.LineAmount{
		line("1", "0", "1"),
		line("1", "0.01", "1"),
		line("7", "3.33", "0.25"),
		line("100", "1000", "1"),
	}

	for _, extra := range extras {
		withOrder := base
		withOrder.Orders = append(append([]billing.LineAmount{}, base.Orders...), extra)
		after := billing.Recompute(withOrder)
		assert.True(t, after.GrandTotal.GreaterThanOrEqual(before.GrandTotal), "un pedido no reduce el total")

		withReturn := base
		withReturn.Returns = append(append([]billing.LineAmount{}, base.Returns...), extra)
		after = billing.Recompute(withReturn)
		assert.True(t, after.GrandTotal.LessThanOrEqual(before.GrandTotal), "una devolución no aumenta el total")
		assert.True(t, after.RemainingBalance.LessThanOrEqual(before.RemainingBalance), "una devolución no aumenta el saldo")
	}

	for _, amount := range []string{"0.01", "1", "17", "1000"} {
		withPayment := base
		withPayment.Payments = append(append([]decimal.Decimal{}, base.Payments...), dec(amount))
		after := billing.Recompute(withPayment)
		assert.True(t, after.GrandTotal.Equal(before.GrandTotal), "un abono no cambia el total")
		assert.True(t, after.RemainingBalance.LessThanOrEqual(before.RemainingBalance), "un abono no aumenta el saldo")
	}
}

func TestRecompute_NuncaNegativo(t *testing.T) {
	got := billing.Recompute(billing.TotalsInput{
		Discount: dec("1000"),
		Orders:   []billing.LineAmount{line("1", "10", "1")},
		Payments: []decimal.Decimal{dec("5")},
	})
	assert.False(t, got.GrandTotal.IsNegative())
	assert.False(t, got.RemainingBalance.IsNegative())
	assert.Equal(t, billing.StatusPaid, got.PaymentStatus)
}

// ── Funciones auxiliares ─────────────────────────────────────────────────────

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		grand, partial, remaining string
		want                      billing.PaymentStatus
	}{
		{"0", "0", "0", billing.StatusPaid},
		{"0", "10", "0", billing.StatusPaid},
		{"10", "0", "10", billing.StatusUnpaid},
		{"10", "10", "0", billing.StatusPaid},
		{"10", "4", "6", billing.StatusPartial},
	}
	for _, tt := range tests {
		got := billing.DeriveStatus(dec(tt.grand), dec(tt.partial), dec(tt.remaining))
		assert.Equal(t, tt.want, got, "%s/%s/%s", tt.grand, tt.partial, tt.remaining)
	}
}

func TestLineTotal(t *testing.T) {
	assertMoney(t, "50.00", billing.LineTotal(dec("10"), dec("5"), dec("1")))
	assertMoney(t, "4.50", billing.LineTotal(dec("3"), dec("1.50"), dec("1")))
	assertMoney(t, "1.68", billing.LineTotal(dec("1"), dec("3.35"), dec("0.5")))
}

func TestPaymentDays(t *testing.T) {
	inv := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, billing.PaymentDays(inv, inv))
	assert.Equal(t, 0, billing.PaymentDays(inv, time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, 1, billing.PaymentDays(inv, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, 31, billing.PaymentDays(inv, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, billing.PaymentDays(inv, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)), "un pago anterior a la factura cuenta 0 días")
}

func TestValidateLine(t *testing.T) {
	assert.NoError(t, billing.ValidateLine(dec("1"), dec("0"), dec("0")))
	assert.NoError(t, billing.ValidateLine(dec("1"), dec("10"), dec("1")))
	assert.Error(t, billing.ValidateLine(dec("0"), dec("10"), dec("1")))
	assert.Error(t, billing.ValidateLine(dec("1"), dec("-1"), dec("1")))
	assert.Error(t, billing.ValidateLine(dec("1"), dec("10"), dec("1.01")))
	assert.Error(t, billing.ValidateLine(dec("1"), dec("10"), dec("-0.1")))
}

func TestValidateAmountAndDiscount(t *testing.T) {
	assert.NoError(t, billing.ValidateAmount(dec("0.01")))
	assert.Error(t, billing.ValidateAmount(dec("0")))
	assert.NoError(t, billing.ValidateDiscount(dec("0")))
	assert.Error(t, billing.ValidateDiscount(dec("-0.01")))
}

func TestValidate_RechazaDecimalesDeMas(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"cantidad 3 decimales", billing.ValidateLine(dec("1.125"), dec("1"), dec("1"))},
		{"precio 4 decimales", billing.ValidateLine(dec("1"), dec("3.3355"), dec("1"))},
		{"tasa 4 decimales", billing.ValidateLine(dec("1"), dec("1"), dec("0.3333"))},
		{"ceros a la derecha", billing.ValidateLine(dec("2.000000"), dec("5.00000"), dec("1.00000"))},
		{"monto 2 decimales", billing.ValidateAmount(dec("10.25"))},
		{"descuento 2 decimales", billing.ValidateDiscount(dec("0.50"))},
	}
	for _, tc := range cases {
		assert.NoError(t, tc.err, tc.name)
	}

	rejected := []struct {
		name string
		err  error
	}{
		{"cantidad", billing.ValidateLine(dec("1.0001"), dec("1"), dec("1"))},
		{"precio", billing.ValidateLine(dec("1"), dec("3.33355"), dec("1"))},
		{"tasa", billing.ValidateLine(dec("1"), dec("1"), dec("0.33333"))},
		{"monto", billing.ValidateAmount(dec("10.005"))},
		{"descuento", billing.ValidateDiscount(dec("0.001"))},
		{"monto fuera de rango", billing.ValidateAmount(dec("1000000000000"))},
	}
	for _, tc := range rejected {
		assert.ErrorIs(t, tc.err, domain.ErrInvalidInput, tc.name)
	}
}
