package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/insight"
)

// InsightHandler generación e historial de insights de IA por alumno.
type InsightHandler struct {
	uc *insight.UseCase
}

// NewInsightHandler construye el handler.
func NewInsightHandler(uc *insight.UseCase) *InsightHandler {
	return &InsightHandler{uc: uc}
}

// History godoc
// @Summary      Historial de insights del alumno
// @Tags         insights
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del alumno"
// @Success      200  {array}   dto.InsightResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/insights/aluno/{id} [get]
func (h *InsightHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Generate godoc
// @Summary      Generar insight con IA
// @Description  Envía el expediente del alumno y la instrucción al proveedor de IA (timeout 30 s).
// @Description  Una sola generación por alumno a la vez: la segunda recibe 409.
// @Tags         insights
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del alumno"
// @Param        body  body  dto.GenerateInsightRequest  true  "prompt"
// @Success      201   {object}  dto.InsightResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Failure      504   {object}  dto.ErrorResponse
// @Router       /api/insights/aluno/{id} [post]
func (h *InsightHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateInsightRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Generate(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
