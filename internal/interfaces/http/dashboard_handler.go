package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/analytics"
)

// DashboardHandler panel de inicio.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Panel de inicio de la escuela
// @Description  Totales, medias por materia del año lectivo e insights de los últimos 30 días.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        viewingSchoolId  query  string  false  "Escuela a consultar (solo Administrador; por defecto la propia)"
// @Param        anoLetivo        query  int     false  "Año lectivo (por defecto el actual)"
// @Success      200  {object}  dto.DashboardResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	schoolID, err := resolveSchool(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetSummary(c.Context(), GetActor(c), schoolID, c.QueryInt("anoLetivo", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
