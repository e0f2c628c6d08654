package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/application/usecase"
)

// BankHandler maneja las peticiones HTTP de bancos (protegido).
type BankHandler struct {
	uc *usecase.BankUseCase
}

// NewBankHandler construye el handler.
func NewBankHandler(uc *usecase.BankUseCase) *BankHandler {
	return &BankHandler{uc: uc}
}

// Create godoc
// @Summary      Crear banco
// @Description  El código visible se asigna de forma secuencial.
// @Tags         banks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BankRequest  true  "Datos del banco"
// @Success      201   {object}  dto.BankResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/banks [post]
func (h *BankHandler) Create(c *fiber.Ctx) error {
	var in dto.BankRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener banco por ID
// @Tags         banks
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del banco"
// @Success      200  {object}  dto.BankResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/banks/{id} [get]
func (h *BankHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar banco
// @Tags         banks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del banco"
// @Param        body  body  dto.BankRequest  true  "Datos del banco"
// @Success      200   {object}  dto.BankResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/banks/{id} [put]
func (h *BankHandler) Update(c *fiber.Ctx) error {
	var in dto.BankRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar banco
// @Description  Falla con 409 si alguna factura lo referencia.
// @Tags         banks
// @Security     Bearer
// @Param        id   path  string  true  "ID del banco"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/banks/{id} [delete]
func (h *BankHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar bancos
// @Tags         banks
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Desplazamiento"  default(0)
// @Success      200  {array}  dto.BankResponse
// @Router       /api/banks [get]
func (h *BankHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
