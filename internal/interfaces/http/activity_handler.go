package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
)

// ActivityHandler maneja actividades. Un Professor queda siempre como dueño de las suyas.
type ActivityHandler struct {
	uc *usecase.ActivityUseCase
}

// NewActivityHandler construye el handler.
func NewActivityHandler(uc *usecase.ActivityUseCase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

// List godoc
// @Summary      Listar actividades
// @Description  Un Professor solo ve las propias.
// @Tags         atividades
// @Security     Bearer
// @Produce      json
// @Param        viewingSchoolId  query  string  false  "Escuela a consultar (solo Administrador)"
// @Param        turmaId          query  string  false  "Filtrar por turma"
// @Success      200  {array}   dto.ActivityResponse
// @Router       /api/atividades [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	schoolID, err := resolveSchool(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.Context(), GetActor(c), schoolID, c.Query("turmaId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener actividad
// @Tags         atividades
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la actividad"
// @Success      200  {object}  dto.ActivityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/atividades/{id} [get]
func (h *ActivityHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear actividad
// @Description  Para un Professor, professorId se reemplaza por su propio id.
// @Tags         atividades
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        viewingSchoolId  query  string               false  "Escuela destino (solo Administrador)"
// @Param        body             body   dto.ActivityRequest  true   "Datos de la actividad"
// @Success      201  {object}  dto.ActivityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/atividades [post]
func (h *ActivityHandler) Create(c *fiber.Ctx) error {
	var in dto.ActivityRequest
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
// @Summary      Actualizar actividad
// @Tags         atividades
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la actividad"
// @Param        body  body  dto.ActivityRequest  true  "Datos de la actividad"
// @Success      200   {object}  dto.ActivityResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/atividades/{id} [put]
func (h *ActivityHandler) Update(c *fiber.Ctx) error {
	var in dto.ActivityRequest
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
// @Summary      Eliminar actividad
// @Tags         atividades
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la actividad"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/atividades/{id} [delete]
func (h *ActivityHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "atividade removida"})
}
