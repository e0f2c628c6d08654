package dto

import "github.com/shopspring/decimal"

// ProductRequest body para POST/PUT /api/products.
type ProductRequest struct {
	ProductCode string          `json:"product_code" validate:"required,max=50"`
	Description string          `json:"description" validate:"required,max=200"`
	Unit        string          `json:"unit,omitempty" validate:"max=20"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"min=0"`
	Status      string          `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	ProductCode string `json:"product_code"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	Status      string `json:"status"`
}
