package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/margiesol/mew-bad/internal/domain"
)

var one = decimal.NewFromInt(1)

// Precisión y escala de las columnas NUMERIC donde se guardan los valores.
// Un valor con más decimales se rechaza en vez de dejar que la base lo redondee.
const (
	QuantityScale = 3 // NUMERIC(14,3)
	PriceScale    = 4 // NUMERIC(14,4)
	RateScale     = 4 // NUMERIC(5,4)
	MoneyScale    = 2 // NUMERIC(14,2)

	numericPrecision = 14
)

// checkNumeric verifica que d quepa en NUMERIC(numericPrecision, scale) sin redondeo.
func checkNumeric(field string, d decimal.Decimal, scale int32) error {
	if !d.Equal(d.Truncate(scale)) {
		return fmt.Errorf("%w: %s admite como máximo %d decimales", domain.ErrInvalidInput, field, scale)
	}
	limit := decimal.New(1, numericPrecision-scale)
	if d.Abs().GreaterThanOrEqual(limit) {
		return fmt.Errorf("%w: %s fuera de rango", domain.ErrInvalidInput, field)
	}
	return nil
}

// ValidateLine comprueba cantidad > 0, precio >= 0, tasa en [0,1] y sus decimales.
func ValidateLine(quantity, pricePerUnit, rate decimal.Decimal) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser mayor que 0", domain.ErrInvalidInput)
	}
	if pricePerUnit.IsNegative() {
		return fmt.Errorf("%w: el precio unitario no puede ser negativo", domain.ErrInvalidInput)
	}
	if rate.IsNegative() || rate.GreaterThan(one) {
		return fmt.Errorf("%w: la tasa debe estar entre 0 y 1", domain.ErrInvalidInput)
	}
	if err := checkNumeric("quantity", quantity, QuantityScale); err != nil {
		return err
	}
	if err := checkNumeric("price_per_unit", pricePerUnit, PriceScale); err != nil {
		return err
	}
	return checkNumeric("rate", rate, RateScale)
}

// ValidateAmount comprueba que un abono sea positivo y tenga a lo sumo 2 decimales.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: el monto debe ser mayor que 0", domain.ErrInvalidInput)
	}
	return checkNumeric("amount", amount, MoneyScale)
}

// ValidateDiscount comprueba que el descuento no sea negativo y tenga a lo sumo 2 decimales.
func ValidateDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() {
		return fmt.Errorf("%w: el descuento no puede ser negativo", domain.ErrInvalidInput)
	}
	return checkNumeric("discount", discount, MoneyScale)
}
