package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
)

// RecordHandler observaciones y evaluaciones socioemocionales. Quien registra queda como autor.
type RecordHandler struct {
	observations *usecase.ObservationUseCase
	evaluations  *usecase.EvaluationUseCase
}

// NewRecordHandler construye el handler.
func NewRecordHandler(observations *usecase.ObservationUseCase, evaluations *usecase.EvaluationUseCase) *RecordHandler {
	return &RecordHandler{observations: observations, evaluations: evaluations}
}

// CreateObservation godoc
// @Summary      Registrar observación
// @Tags         observacoes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ObservationRequest  true  "alunoId, texto, data"
// @Success      201   {object}  dto.ObservationResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/observacoes [post]
func (h *RecordHandler) CreateObservation(c *fiber.Ctx) error {
	var in dto.ObservationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.observations.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListObservations godoc
// @Summary      Observaciones de un alumno
// @Tags         observacoes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del alumno"
// @Success      200  {array}  dto.ObservationResponse
// @Router       /api/observacoes/aluno/{id} [get]
func (h *RecordHandler) ListObservations(c *fiber.Ctx) error {
	out, err := h.observations.ListByStudent(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateEvaluation godoc
// @Summary      Registrar evaluación socioemocional
// @Tags         avaliacoes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EvaluationRequest  true  "Escalas 1 a 5"
// @Success      201   {object}  dto.EvaluationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/avaliacoes [post]
func (h *RecordHandler) CreateEvaluation(c *fiber.Ctx) error {
	var in dto.EvaluationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.evaluations.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListEvaluations godoc
// @Summary      Evaluaciones de un alumno
// @Tags         avaliacoes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del alumno"
// @Success      200  {array}  dto.EvaluationResponse
// @Router       /api/avaliacoes/aluno/{id} [get]
func (h *RecordHandler) ListEvaluations(c *fiber.Ctx) error {
	out, err := h.evaluations.ListByStudent(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
