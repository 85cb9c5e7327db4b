package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
)

// ClassHandler maneja las peticiones HTTP para turmas.
type ClassHandler struct {
	uc *usecase.ClassUseCase
}

// NewClassHandler construye el handler.
func NewClassHandler(uc *usecase.ClassUseCase) *ClassHandler {
	return &ClassHandler{uc: uc}
}

// List godoc
// @Summary      Listar turmas
// @Tags         turmas
// @Security     Bearer
// @Produce      json
// @Param        viewingSchoolId  query  string  false  "Escuela a consultar (solo Administrador)"
// @Success      200  {array}   dto.ClassResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/turmas [get]
func (h *ClassHandler) List(c *fiber.Ctx) error {
	schoolID, err := resolveSchool(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.Context(), schoolID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener turma
// @Tags         turmas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la turma"
// @Success      200  {object}  dto.ClassResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/turmas/{id} [get]
func (h *ClassHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear turma
// @Tags         turmas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        viewingSchoolId  query  string            false  "Escuela destino (solo Administrador)"
// @Param        body             body   dto.ClassRequest  true   "Datos de la turma"
// @Success      201  {object}  dto.ClassResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/turmas [post]
func (h *ClassHandler) Create(c *fiber.Ctx) error {
	var in dto.ClassRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	viewing, err := resolveSchool(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in, viewing)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar turma
// @Tags         turmas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID de la turma"
// @Param        body  body  dto.ClassRequest  true  "Datos de la turma"
// @Success      200   {object}  dto.ClassResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/turmas/{id} [put]
func (h *ClassHandler) Update(c *fiber.Ctx) error {
	var in dto.ClassRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar turma
// @Tags         turmas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la turma"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/turmas/{id} [delete]
func (h *ClassHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "turma removida"})
}
