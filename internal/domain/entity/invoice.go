package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/margiesol/mew-bad/internal/domain/billing"
)

// Estados de entrega de la mercancía.
const (
	DeliveryPending   = "Pending"
	DeliveryDelivered = "Delivered"
	DeliveryCancelled = "Cancelled"
)

// ValidDeliveryStatus indica si s es un estado de entrega conocido.
func ValidDeliveryStatus(s string) bool {
	switch s {
	case DeliveryPending, DeliveryDelivered, DeliveryCancelled:
		return true
	}
	return false
}

// Invoice cabecera de una factura de venta.
// GrandTotal, PartialPayment, RemainingBalance y PaymentStatus son derivados:
// solo ApplyTotals los escribe.
type Invoice struct {
	ID             string
	Number         string
	Date           time.Time
	CustomerID     string
	AgentID        string // opcional
	PlateNo        string
	DeliveryStatus string
	Terms          int // días de crédito
	Remarks        string
	Discount       decimal.Decimal

	GrandTotal       decimal.Decimal
	PartialPayment   decimal.Decimal
	RemainingBalance decimal.Decimal
	PaymentStatus    billing.PaymentStatus

	IsDeleted bool
	DeletedAt *time.Time
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplyTotals sobrescribe los campos derivados.
func (i *Invoice) ApplyTotals(t billing.Totals) {
	i.GrandTotal = t.GrandTotal
	i.PartialPayment = t.PartialPayment
	i.RemainingBalance = t.RemainingBalance
	i.PaymentStatus = t.PaymentStatus
}

// Totals devuelve los campos derivados actuales.
func (i *Invoice) Totals() billing.Totals {
	return billing.Totals{
		GrandTotal:       i.GrandTotal,
		PartialPayment:   i.PartialPayment,
		RemainingBalance: i.RemainingBalance,
		PaymentStatus:    i.PaymentStatus,
	}
}

// DueDate fecha de vencimiento según los días de crédito.
func (i *Invoice) DueDate() time.Time {
	return i.Date.AddDate(0, 0, i.Terms)
}

// IsOverdue indica si queda saldo y la fecha de vencimiento ya pasó.
// Se compara por día: el día del vencimiento todavía no está vencida.
func (i *Invoice) IsOverdue(now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return i.RemainingBalance.IsPositive() && today.After(i.DueDate())
}
