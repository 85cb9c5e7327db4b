package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
)

// ConditionHandler catálogo de condiciones y asignación a alumnos.
type ConditionHandler struct {
	uc *usecase.ConditionUseCase
}

// NewConditionHandler construye el handler.
func NewConditionHandler(uc *usecase.ConditionUseCase) *ConditionHandler {
	return &ConditionHandler{uc: uc}
}

// List godoc
// @Summary      Catálogo de condiciones
// @Tags         condicoes
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ConditionResponse
// @Router       /api/condicoes [get]
func (h *ConditionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Agregar condición al catálogo
// @Tags         condicoes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConditionRequest  true  "nome, cid, descricao"
// @Success      201   {object}  dto.ConditionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/condicoes [post]
func (h *ConditionHandler) Create(c *fiber.Ctx) error {
	var in dto.ConditionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Assign godoc
// @Summary      Asignar condición a un alumno
// @Description  Reasignar la misma condición actualiza la observación.
// @Tags         condicoes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignConditionRequest  true  "alunoId, condicaoId, observacao"
// @Success      200   {object}  dto.StudentConditionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/condicoes/atribuir [post]
func (h *ConditionHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignConditionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Assign(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
