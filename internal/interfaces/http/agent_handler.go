package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/application/usecase"
)

// AgentHandler maneja las peticiones HTTP de agentes (protegido).
type AgentHandler struct {
	uc *usecase.AgentUseCase
}

// NewAgentHandler construye el handler.
func NewAgentHandler(uc *usecase.AgentUseCase) *AgentHandler {
	return &AgentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear agente
// @Description  El código visible se asigna de forma secuencial.
// @Tags         agents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AgentRequest  true  "Datos del agente"
// @Success      201   {object}  dto.AgentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/agents [post]
func (h *AgentHandler) Create(c *fiber.Ctx) error {
	var in dto.AgentRequest
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
// @Summary      Obtener agente por ID
// @Tags         agents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del agente"
// @Success      200  {object}  dto.AgentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/agents/{id} [get]
func (h *AgentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar agente
// @Tags         agents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del agente"
// @Param        body  body  dto.AgentRequest  true  "Datos del agente"
// @Success      200   {object}  dto.AgentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/agents/{id} [put]
func (h *AgentHandler) Update(c *fiber.Ctx) error {
	var in dto.AgentRequest
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
// @Summary      Eliminar agente
// @Description  Falla con 409 si alguna factura lo referencia.
// @Tags         agents
// @Security     Bearer
// @Param        id   path  string  true  "ID del agente"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/agents/{id} [delete]
func (h *AgentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar agentes
// @Tags         agents
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Desplazamiento"  default(0)
// @Success      200  {array}  dto.AgentResponse
// @Router       /api/agents [get]
func (h *AgentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
