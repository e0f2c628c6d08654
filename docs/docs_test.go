package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	_ "github.com/margiesol/mew-bad/docs"
)

func TestReadDoc_RegistraRutasPrincipales(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Contains(t, doc.Paths, "/api/invoices/{id}/payments/{paymentID}/cheque-status")
	assert.Contains(t, doc.Paths["/api/invoices/{id}"], "delete")
	assert.Contains(t, doc.Definitions, "dto.InvoiceResponse")
}
