// Package masterdata reglas compartidas por los catálogos (productos, clientes,
// agentes y bancos).
package masterdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/margiesol/mew-bad/internal/domain"
)

// Anchos de los códigos visibles por catálogo.
const (
	ProductCodeWidth  = 5
	CustomerCodeWidth = 4
	AgentCodeWidth    = 4
	BankCodeWidth     = 4
)

// DefaultArea área de un cliente sin zona asignada.
const DefaultArea = "No Selection"

// PadCode formatea n con ceros a la izquierda hasta width dígitos.
func PadCode(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

// NextCode devuelve el código siguiente a last. Un last vacío inicia en 1.
// Si el consecutivo supera el ancho, el código crece sin truncarse.
func NextCode(last string, width int) (string, error) {
	last = strings.TrimSpace(last)
	if last == "" {
		return PadCode(1, width), nil
	}
	n, err := strconv.Atoi(last)
	if err != nil || n < 0 {
		return "", fmt.Errorf("%w: código %q no es numérico", domain.ErrInvalidInput, last)
	}
	return PadCode(n+1, width), nil
}
