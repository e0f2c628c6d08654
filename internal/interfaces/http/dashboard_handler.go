package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/margiesol/mew-bad/internal/application/analytics"
	"github.com/margiesol/mew-bad/internal/application/dto"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen de ventas
// @Description  Totales de facturas vigentes en el periodo. Sin from/to abarca todas.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	in := dto.DashboardSummaryRequest{From: c.Query("from"), To: c.Query("to")}
	summary, err := h.uc.GetSummary(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
