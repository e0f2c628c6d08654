package dto

// DashboardSummaryRequest query de GET /api/dashboard/summary.
type DashboardSummaryRequest struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// DashboardSummaryDTO totales del tablero principal.
type DashboardSummaryDTO struct {
	From             string         `json:"from,omitempty"`
	To               string         `json:"to,omitempty"`
	InvoiceCount     int            `json:"invoice_count"`
	TotalSales       string         `json:"total_sales"`
	TotalReceived    string         `json:"total_sales_received"`
	TotalOutstanding string         `json:"total_outstanding"`
	ByPaymentStatus  map[string]int `json:"by_payment_status"`
	ByDeliveryStatus map[string]int `json:"by_delivery_status"`
	OverdueCount     int            `json:"overdue_count"`
}
