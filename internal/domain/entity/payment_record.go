package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formas de pago.
const (
	PaymentTypeCash   = "cash"
	PaymentTypeCheque = "cheque"
)

// Estados de un cheque.
const (
	ChequePending = "Pending"
	ChequeCleared = "Cleared"
	ChequeBounced = "Bounced"
)

// ValidChequeStatus indica si s es un estado de cheque conocido.
func ValidChequeStatus(s string) bool {
	switch s {
	case ChequePending, ChequeCleared, ChequeBounced:
		return true
	}
	return false
}

// PaymentRecord abono aplicado al saldo de una factura.
// SequenceNo es consecutivo dentro de la factura (1..n).
type PaymentRecord struct {
	ID          string
	InvoiceID   string
	SequenceNo  int
	PaymentDate time.Time
	Amount      decimal.Decimal
	PaymentType string
	Days        int // derivado: fecha de pago − fecha de factura, mínimo 0
	Cheque      *ChequePayment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChequePayment detalle 1:1 de un abono pagado con cheque.
type ChequePayment struct {
	PaymentID  string
	BankID     string
	ChequeNo   string
	ChequeDate time.Time
	Status     string
	UpdatedAt  time.Time
}
