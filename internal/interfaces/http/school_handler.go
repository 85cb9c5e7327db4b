package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
)

// SchoolHandler maneja las peticiones HTTP para escuelas.
type SchoolHandler struct {
	uc *usecase.SchoolUseCase
}

// NewSchoolHandler construye el handler inyectando el caso de uso.
func NewSchoolHandler(uc *usecase.SchoolUseCase) *SchoolHandler {
	return &SchoolHandler{uc: uc}
}

// List godoc
// @Summary      Listar escuelas (administrador: todas; resto: la propia)
// @Tags         escolas
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.SchoolResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/escolas [get]
func (h *SchoolHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener escuela
// @Tags         escolas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la escuela"
// @Success      200  {object}  dto.SchoolResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/escolas/{id} [get]
func (h *SchoolHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear escuela
// @Tags         escolas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SchoolRequest  true  "Datos de la escuela"
// @Success      201   {object}  dto.SchoolResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/escolas [post]
func (h *SchoolHandler) Create(c *fiber.Ctx) error {
	var in dto.SchoolRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar escuela
// @Tags         escolas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la escuela"
// @Param        body  body  dto.SchoolRequest  true  "Datos de la escuela"
// @Success      200   {object}  dto.SchoolResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/escolas/{id} [put]
func (h *SchoolHandler) Update(c *fiber.Ctx) error {
	var in dto.SchoolRequest
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
// @Summary      Eliminar escuela
// @Description  Falla con 409 si la escuela todavía tiene docentes, turmas o alumnos.
// @Tags         escolas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la escuela"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/escolas/{id} [delete]
func (h *SchoolHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "escola removida"})
}
