package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/margiesol/mew-bad/internal/application/billing"
	"github.com/margiesol/mew-bad/internal/application/dto"
)

// PaymentHandler maneja los abonos de una factura y el estado de sus cheques.
type PaymentHandler struct {
	uc *billing.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *billing.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// Add godoc
// @Summary      Registrar abono
// @Description  payment_type=cheque exige los datos del cheque. Responde con la factura recalculada.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.PaymentRequest  true  "Abono"
// @Success      201   {object}  dto.PaymentMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments [post]
func (h *PaymentHandler) Add(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Add(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar abonos
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {array}   dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar abono
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string  true  "ID de la factura"
// @Param        paymentID  path  string  true  "ID del abono"
// @Param        body       body  dto.PaymentRequest  true  "Abono"
// @Success      200  {object}  dto.PaymentMutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments/{paymentID} [put]
func (h *PaymentHandler) Update(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), c.Params("paymentID"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar abono
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID de la factura"
// @Param        paymentID  path  string  true  "ID del abono"
// @Success      200  {object}  dto.PaymentMutationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments/{paymentID} [delete]
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.Context(), c.Params("id"), c.Params("paymentID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetChequeStatus godoc
// @Summary      Cambiar estado del cheque
// @Description  Pending pasa a Cleared o Bounced. Un cheque Cleared ya no cambia.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string  true  "ID de la factura"
// @Param        paymentID  path  string  true  "ID del abono"
// @Param        body       body  dto.ChequeStatusRequest  true  "Nuevo estado"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments/{paymentID}/cheque-status [patch]
func (h *PaymentHandler) SetChequeStatus(c *fiber.Ctx) error {
	var in dto.ChequeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetChequeStatus(c.Context(), c.Params("id"), c.Params("paymentID"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
