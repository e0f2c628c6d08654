package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/margiesol/mew-bad/internal/application/billing"
	"github.com/margiesol/mew-bad/internal/application/dto"
)

// RecordHandler maneja pedidos y devoluciones de una factura. kind fija el tipo
// de renglón; el router registra una instancia por ruta.
type RecordHandler struct {
	uc   *billing.RecordUseCase
	kind string
}

// NewRecordHandler construye el handler para kind (entity.LineKindOrder o entity.LineKindReturn).
func NewRecordHandler(uc *billing.RecordUseCase, kind string) *RecordHandler {
	return &RecordHandler{uc: uc, kind: kind}
}

// Add godoc
// @Summary      Agregar pedido o devolución
// @Description  price_per_unit vacío toma el precio del producto; rate vacío vale 1. Responde con la factura recalculada.
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.LineRecordRequest  true  "Renglón"
// @Success      201   {object}  dto.LineRecordMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/orders [post]
// @Router       /api/invoices/{id}/returns [post]
func (h *RecordHandler) Add(c *fiber.Ctx) error {
	var in dto.LineRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Add(c.Context(), c.Params("id"), h.kind, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pedidos o devoluciones
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {array}   dto.LineRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/orders [get]
// @Router       /api/invoices/{id}/returns [get]
func (h *RecordHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Params("id"), h.kind)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar pedido o devolución
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path  string  true  "ID de la factura"
// @Param        recordID  path  string  true  "ID del renglón"
// @Param        body      body  dto.LineRecordRequest  true  "Renglón"
// @Success      200   {object}  dto.LineRecordMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/orders/{recordID} [put]
// @Router       /api/invoices/{id}/returns/{recordID} [put]
func (h *RecordHandler) Update(c *fiber.Ctx) error {
	var in dto.LineRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), h.kind, c.Params("recordID"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar pedido o devolución
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        id        path  string  true  "ID de la factura"
// @Param        recordID  path  string  true  "ID del renglón"
// @Success      200  {object}  dto.LineRecordMutationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/orders/{recordID} [delete]
// @Router       /api/invoices/{id}/returns/{recordID} [delete]
func (h *RecordHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.Context(), c.Params("id"), h.kind, c.Params("recordID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
