package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/margiesol/mew-bad/internal/domain/repository"
)

func TestInvoiceWhere_SinFiltrosExcluyeEliminadas(t *testing.T) {
	where, args := invoiceWhere(repository.InvoiceFilter{})
	assert.Equal(t, " WHERE NOT is_deleted", where)
	assert.Empty(t, args)
}

func TestInvoiceWhere_IncluirEliminadasSinFiltros(t *testing.T) {
	where, args := invoiceWhere(repository.InvoiceFilter{IncludeDeleted: true})
	assert.Empty(t, where)
	assert.Nil(t, args)
}

func TestInvoiceWhere_PlaceholdersEnOrden(t *testing.T) {
	from := time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC)
	where, args := invoiceWhere(repository.InvoiceFilter{
		PaymentStatus: "Unpaid",
		CustomerID:    "c-1",
		NumberPrefix:  "SI_1",
		From:          &from,
	})

	assert.Equal(t, " WHERE NOT is_deleted AND payment_status = $1 AND customer_id = $2 AND number LIKE $3 AND invoice_date >= $4", where)
	assert.Equal(t, []any{"Unpaid", "c-1", `SI\_1%`, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}, args)
}
