package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesTotals sumas monetarias de las facturas vigentes.
type SalesTotals struct {
	InvoiceCount     int
	TotalSales       decimal.Decimal
	TotalReceived    decimal.Decimal
	TotalOutstanding decimal.Decimal
}

// DashboardRepository consultas de solo lectura para el tablero principal.
// from/to nulos no acotan el período.
type DashboardRepository interface {
	SalesTotals(ctx context.Context, from, to *time.Time) (SalesTotals, error)
	CountByPaymentStatus(ctx context.Context, from, to *time.Time) (map[string]int, error)
	CountByDeliveryStatus(ctx context.Context, from, to *time.Time) (map[string]int, error)
	CountOverdue(ctx context.Context, asOf time.Time) (int, error)
}
