package pdf

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// moneyFormatter imprime montos con separador de miles y los decimales estándar de la moneda.
type moneyFormatter struct {
	unit    currency.Unit
	scale   int
	pattern string
	printer *message.Printer
}

func newMoneyFormatter(code string) (*moneyFormatter, error) {
	if code == "" {
		code = "PHP"
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("pdf: moneda %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return &moneyFormatter{
		unit:    unit,
		scale:   scale,
		pattern: fmt.Sprintf("%%.%df", scale),
		printer: message.NewPrinter(language.English),
	}, nil
}

// Format ej. "PHP 1,234.50".
func (f *moneyFormatter) Format(d decimal.Decimal) string {
	amount := d.Round(int32(f.scale)).InexactFloat64()
	return f.unit.String() + " " + f.printer.Sprintf(f.pattern, amount)
}
