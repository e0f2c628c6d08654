package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/margiesol/mew-bad/internal/application/usecase"
)

// ProfileHandler expone los próximos códigos visibles de los catálogos.
type ProfileHandler struct {
	uc *usecase.ProfileUseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// NextCodes godoc
// @Summary      Próximos códigos de catálogo
// @Tags         profiles
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NextCodesResponse
// @Router       /api/profiles/next-codes [get]
func (h *ProfileHandler) NextCodes(c *fiber.Ctx) error {
	out, err := h.uc.NextCodes(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
