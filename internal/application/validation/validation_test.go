package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/application/validation"
	"github.com/margiesol/mew-bad/internal/domain"
)

func TestStruct_Valido(t *testing.T) {
	req := dto.CreateInvoiceRequest{
		Number:     "000123",
		Date:       "2024-05-01",
		CustomerID: "2f1c9e64-4c1f-4b7a-9d55-6c0f1f0a8a11",
	}
	assert.NoError(t, validation.Struct(req))
}

func TestStruct_CamposInvalidos(t *testing.T) {
	req := dto.CreateInvoiceRequest{
		Date:           "01/05/2024",
		CustomerID:     "no-es-uuid",
		DeliveryStatus: "Lost",
	}
	err := validation.Struct(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))

	rules := map[string]string{}
	for _, f := range verr.Fields {
		rules[f.Field] = f.Rule
	}
	assert.Equal(t, "required", rules["number"])
	assert.Equal(t, "datetime", rules["date"])
	assert.Equal(t, "uuid", rules["customer_id"])
	assert.Equal(t, "oneof", rules["delivery_status"])
}

func TestStruct_ChequeAnidado(t *testing.T) {
	req := dto.PaymentRequest{
		PaymentDate: "2024-05-02",
		PaymentType: "cheque",
		Cheque:      &dto.ChequeRequest{ChequeNo: "12345", ChequeDate: "2024-05-02"},
	}
	err := validation.Struct(req)
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "cheque.bank_id", verr.Fields[0].Field)
}

func TestStruct_CambioDePasswordIgual(t *testing.T) {
	err := validation.Struct(dto.ChangePasswordRequest{CurrentPassword: "secreto123", NewPassword: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
