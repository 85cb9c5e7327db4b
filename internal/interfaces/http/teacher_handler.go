package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
)

// TeacherHandler maneja las peticiones HTTP para docentes.
type TeacherHandler struct {
	uc *usecase.TeacherUseCase
}

// NewTeacherHandler construye el handler.
func NewTeacherHandler(uc *usecase.TeacherUseCase) *TeacherHandler {
	return &TeacherHandler{uc: uc}
}

// List godoc
// @Summary      Listar docentes de la escuela
// @Tags         docentes
// @Security     Bearer
// @Produce      json
// @Param        viewingSchoolId  query  string  false  "Escuela a consultar (solo Administrador)"
// @Success      200  {array}   dto.TeacherResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/docentes [get]
func (h *TeacherHandler) List(c *fiber.Ctx) error {
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

// Access godoc
// @Summary      Cargos que el usuario actual puede asignar
// @Tags         docentes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AccessResponse
// @Router       /api/docentes/acessos [get]
func (h *TeacherHandler) Access(c *fiber.Ctx) error {
	return c.JSON(h.uc.Access(GetActor(c)))
}

// GetByID godoc
// @Summary      Obtener docente
// @Tags         docentes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del docente"
// @Success      200  {object}  dto.TeacherResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/docentes/{id} [get]
func (h *TeacherHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear docente
// @Description  Un Supervisor solo puede crear Supervisores y Professores de su escuela.
// @Tags         docentes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        viewingSchoolId  query  string              false  "Escuela destino (solo Administrador)"
// @Param        body             body   dto.TeacherRequest  true   "Datos del docente"
// @Success      201  {object}  dto.TeacherResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/docentes [post]
func (h *TeacherHandler) Create(c *fiber.Ctx) error {
	var in dto.TeacherRequest
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
// @Summary      Actualizar docente
// @Description  senha vacía conserva la actual.
// @Tags         docentes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del docente"
// @Param        body  body  dto.TeacherRequest  true  "Datos del docente"
// @Success      200   {object}  dto.TeacherResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/docentes/{id} [put]
func (h *TeacherHandler) Update(c *fiber.Ctx) error {
	var in dto.TeacherRequest
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
// @Summary      Eliminar docente
// @Tags         docentes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del docente"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/docentes/{id} [delete]
func (h *TeacherHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "docente removido"})
}
