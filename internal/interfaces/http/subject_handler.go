package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
)

// SubjectHandler maneja las peticiones HTTP para materias.
type SubjectHandler struct {
	uc *usecase.SubjectUseCase
}

// NewSubjectHandler construye el handler.
func NewSubjectHandler(uc *usecase.SubjectUseCase) *SubjectHandler {
	return &SubjectHandler{uc: uc}
}

// List godoc
// @Summary      Listar materias
// @Tags         materias
// @Security     Bearer
// @Produce      json
// @Param        viewingSchoolId  query  string  false  "Escuela a consultar (solo Administrador)"
// @Success      200  {array}   dto.SubjectResponse
// @Router       /api/materias [get]
func (h *SubjectHandler) List(c *fiber.Ctx) error {
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

// Create godoc
// @Summary      Crear materia
// @Tags         materias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        viewingSchoolId  query  string              false  "Escuela destino (solo Administrador)"
// @Param        body             body   dto.SubjectRequest  true   "Datos de la materia"
// @Success      201  {object}  dto.SubjectResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/materias [post]
func (h *SubjectHandler) Create(c *fiber.Ctx) error {
	var in dto.SubjectRequest
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
// @Summary      Actualizar materia
// @Tags         materias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la materia"
// @Param        body  body  dto.SubjectRequest  true  "Datos de la materia"
// @Success      200   {object}  dto.SubjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/materias/{id} [put]
func (h *SubjectHandler) Update(c *fiber.Ctx) error {
	var in dto.SubjectRequest
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
// @Summary      Eliminar materia
// @Tags         materias
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la materia"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materias/{id} [delete]
func (h *SubjectHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "matéria removida"})
}
