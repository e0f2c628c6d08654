package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un producto.
const (
	ProductActive   = "Active"
	ProductInactive = "Inactive"
)

// DefaultUnit unidad por defecto de un producto.
const DefaultUnit = "PCS"

// Product artículo del catálogo.
type Product struct {
	ID          string
	Code        string // consecutivo visible, 5 dígitos
	ProductCode string // código comercial, único
	Description string
	Unit        string
	Price       decimal.Decimal
	Quantity    int
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
