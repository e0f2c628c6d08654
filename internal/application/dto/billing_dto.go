package dto

import "github.com/shopspring/decimal"

// ── Facturas ─────────────────────────────────────────────────────────────────

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	Number         string           `json:"number" validate:"required,max=50"`
	Date           string           `json:"date" validate:"required,datetime=2006-01-02"`
	CustomerID     string           `json:"customer_id" validate:"required,uuid"`
	AgentID        string           `json:"agent_id,omitempty" validate:"omitempty,uuid"`
	PlateNo        string           `json:"plate_no,omitempty" validate:"max=20"`
	DeliveryStatus string           `json:"delivery_status,omitempty" validate:"omitempty,oneof=Pending Delivered Cancelled"`
	Terms          int              `json:"terms" validate:"min=0,max=365"`
	Remarks        string           `json:"remarks,omitempty" validate:"max=500"`
	Discount       *decimal.Decimal `json:"discount,omitempty"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id. Campos nulos no cambian.
type UpdateInvoiceRequest struct {
	Number         *string          `json:"number,omitempty" validate:"omitempty,min=1,max=50"`
	Date           *string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CustomerID     *string          `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	AgentID        *string          `json:"agent_id,omitempty" validate:"omitempty,uuid|eq="`
	PlateNo        *string          `json:"plate_no,omitempty" validate:"omitempty,max=20"`
	DeliveryStatus *string          `json:"delivery_status,omitempty" validate:"omitempty,oneof=Pending Delivered Cancelled"`
	Terms          *int             `json:"terms,omitempty" validate:"omitempty,min=0,max=365"`
	Remarks        *string          `json:"remarks,omitempty" validate:"omitempty,max=500"`
	Discount       *decimal.Decimal `json:"discount,omitempty"`
}

// InvoiceListRequest query de GET /api/invoices.
type InvoiceListRequest struct {
	PageRequest
	PaymentStatus  string `query:"payment_status" validate:"omitempty,oneof=Paid Unpaid Partial"`
	DeliveryStatus string `query:"delivery_status" validate:"omitempty,oneof=Pending Delivered Cancelled"`
	CustomerID     string `query:"customer_id" validate:"omitempty,uuid"`
	AgentID        string `query:"agent_id" validate:"omitempty,uuid"`
	Number         string `query:"number" validate:"omitempty,max=50"`
	From           string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To             string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// InvoiceResponse cabecera de factura en respuestas.
type InvoiceResponse struct {
	ID               string `json:"id"`
	Number           string `json:"number"`
	Date             string `json:"date"`
	DueDate          string `json:"due_date"`
	CustomerID       string `json:"customer_id"`
	CustomerName     string `json:"customer_name,omitempty"`
	AgentID          string `json:"agent_id,omitempty"`
	AgentName        string `json:"agent_name,omitempty"`
	PlateNo          string `json:"plate_no,omitempty"`
	DeliveryStatus   string `json:"delivery_status"`
	Terms            int    `json:"terms"`
	Remarks          string `json:"remarks,omitempty"`
	Discount         string `json:"discount"`
	GrandTotal       string `json:"grand_total"`
	PartialPayment   string `json:"partial_payment"`
	RemainingBalance string `json:"remaining_balance"`
	PaymentStatus    string `json:"payment_status"`
	IsDeleted        bool   `json:"is_deleted,omitempty"`
}

// InvoiceDetailResponse factura con sus renglones y abonos (GET /api/invoices/:id).
type InvoiceDetailResponse struct {
	InvoiceResponse
	Orders   []LineRecordResponse `json:"orders"`
	Returns  []LineRecordResponse `json:"returns"`
	Payments []PaymentResponse    `json:"payments"`
}

// InvoiceListResponse página de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ── Renglones de pedido y devolución ─────────────────────────────────────────

// LineRecordRequest body para crear o actualizar un pedido o una devolución.
// Price nulo toma el precio del producto; Rate nulo vale 1.
type LineRecordRequest struct {
	ProductID    string           `json:"product_id" validate:"required,uuid"`
	Quantity     decimal.Decimal  `json:"quantity"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit,omitempty"`
	Rate         *decimal.Decimal `json:"rate,omitempty"`
}

// LineRecordResponse renglón en respuestas.
type LineRecordResponse struct {
	ID           string `json:"id"`
	InvoiceID    string `json:"invoice_id"`
	ProductID    string `json:"product_id"`
	Quantity     string `json:"quantity"`
	PricePerUnit string `json:"price_per_unit"`
	Rate         string `json:"rate"`
	TotalPrice   string `json:"total_price"`
}

// LineRecordMutationResponse renglón afectado más la factura recalculada.
type LineRecordMutationResponse struct {
	Record  *LineRecordResponse `json:"record,omitempty"`
	Invoice InvoiceResponse     `json:"invoice"`
}

// ── Abonos y cheques ─────────────────────────────────────────────────────────

// PaymentRequest body para registrar o editar un abono.
// Cheque es obligatorio si PaymentType es "cheque".
type PaymentRequest struct {
	PaymentDate string          `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"payment_type" validate:"required,oneof=cash cheque"`
	Cheque      *ChequeRequest  `json:"cheque,omitempty"`
}

// ChequeRequest datos del cheque de un abono.
type ChequeRequest struct {
	BankID     string `json:"bank_id" validate:"required,uuid"`
	ChequeNo   string `json:"cheque_no" validate:"required,max=50"`
	ChequeDate string `json:"cheque_date" validate:"required,datetime=2006-01-02"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=Pending Cleared Bounced"`
}

// ChequeStatusRequest body para PATCH .../cheque-status.
type ChequeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Cleared Bounced"`
}

// PaymentResponse abono en respuestas.
type PaymentResponse struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	SequenceNo  int             `json:"sequence_no"`
	PaymentDate string          `json:"payment_date"`
	Amount      string          `json:"amount"`
	PaymentType string          `json:"payment_type"`
	Days        int             `json:"days"`
	Cheque      *ChequeResponse `json:"cheque,omitempty"`
}

// ChequeResponse detalle de cheque en respuestas.
type ChequeResponse struct {
	BankID     string `json:"bank_id"`
	ChequeNo   string `json:"cheque_no"`
	ChequeDate string `json:"cheque_date"`
	Status     string `json:"status"`
}

// PaymentMutationResponse abono afectado más la factura recalculada.
type PaymentMutationResponse struct {
	Payment *PaymentResponse `json:"payment,omitempty"`
	Invoice InvoiceResponse  `json:"invoice"`
}
