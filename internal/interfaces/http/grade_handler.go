package http

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
)

// GradeHandler notas bimestrales.
type GradeHandler struct {
	uc *usecase.GradeUseCase
}

// NewGradeHandler construye el handler.
func NewGradeHandler(uc *usecase.GradeUseCase) *GradeHandler {
	return &GradeHandler{uc: uc}
}

// ListByStudent godoc
// @Summary      Notas bimestrales de un alumno
// @Tags         notasBimestrais
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del alumno"
// @Success      200  {array}   dto.GradeResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/notasBimestrais/aluno/{id} [get]
func (h *GradeHandler) ListByStudent(c *fiber.Ctx) error {
	out, err := h.uc.ListByStudent(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SaveBatch godoc
// @Summary      Guardar lote de notas
// @Description  Acepta {"notas": [...]} o directamente el arreglo. Todo o nada: un ítem inválido no guarda ninguno.
// @Tags         notasBimestrais
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveGradesRequest  true  "Notas"
// @Success      200   {object}  dto.SaveGradesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/notasBimestrais/salvarLote [post]
func (h *GradeHandler) SaveBatch(c *fiber.Ctx) error {
	var in dto.SaveGradesRequest
	body := bytes.TrimSpace(c.Body())
	if len(body) > 0 && body[0] == '[' {
		if err := json.Unmarshal(body, &in.Notas); err != nil {
			return badBody(c)
		}
		if err := requestValidator.Struct(in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
	} else if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SaveBatch(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
