package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/report"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
)

// StudentHandler maneja alumnos, su expediente consolidado y el reporte PDF.
type StudentHandler struct {
	uc  *usecase.StudentUseCase
	pdf *report.PDFUseCase
}

// NewStudentHandler construye el handler. pdf puede ser nil (reporte deshabilitado).
func NewStudentHandler(uc *usecase.StudentUseCase, pdf *report.PDFUseCase) *StudentHandler {
	return &StudentHandler{uc: uc, pdf: pdf}
}

// List godoc
// @Summary      Listar alumnos
// @Tags         alunos
// @Security     Bearer
// @Produce      json
// @Param        viewingSchoolId  query  string  false  "Escuela a consultar (solo Administrador)"
// @Param        turmaId          query  string  false  "Filtrar por turma"
// @Success      200  {array}   dto.StudentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/alunos [get]
func (h *StudentHandler) List(c *fiber.Ctx) error {
	schoolID, err := resolveSchool(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.Context(), schoolID, c.Query("turmaId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener alumno
// @Tags         alunos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del alumno"
// @Success      200  {object}  dto.StudentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alunos/{id} [get]
func (h *StudentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// FullData godoc
// @Summary      Expediente consolidado del alumno
// @Description  Alumno, escuela, turma, condiciones, notas, evaluaciones y observaciones en un único documento.
// @Tags         alunos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del alumno"
// @Success      200  {object}  dto.StudentFullDataResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alunos/{id}/full-data [get]
func (h *StudentHandler) FullData(c *fiber.Ctx) error {
	out, err := h.uc.FullData(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF del alumno
// @Tags         alunos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del alumno"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alunos/{id}/relatorio [get]
func (h *StudentHandler) Report(c *fiber.Ctx) error {
	if h.pdf == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PDF_UNAVAILABLE", Message: "relatório não configurado"})
	}
	pdfBytes, filename, err := h.pdf.StudentReport(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}

// Create godoc
// @Summary      Crear alumno
// @Tags         alunos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        viewingSchoolId  query  string              false  "Escuela destino (solo Administrador)"
// @Param        body             body   dto.StudentRequest  true   "Datos del alumno"
// @Success      201  {object}  dto.StudentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alunos [post]
func (h *StudentHandler) Create(c *fiber.Ctx) error {
	var in dto.StudentRequest
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
// @Summary      Actualizar alumno
// @Tags         alunos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del alumno"
// @Param        body  body  dto.StudentRequest  true  "Datos del alumno"
// @Success      200   {object}  dto.StudentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/alunos/{id} [put]
func (h *StudentHandler) Update(c *fiber.Ctx) error {
	var in dto.StudentRequest
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
// @Summary      Eliminar alumno
// @Description  Borra también notas, evaluaciones, observaciones e insights del alumno.
// @Tags         alunos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del alumno"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alunos/{id} [delete]
func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "aluno removido"})
}
