package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/domain"
)

// QueryViewingSchool parámetro con el que un administrador elige la escuela a consultar.
const QueryViewingSchool = "viewingSchoolId"

// resolveSchool decide la escuela de una lectura o alta.
// Administrador: la de viewingSchoolId ("" = todas en listados).
// Resto: siempre la del token; pedir otra escuela es ErrForbidden.
func resolveSchool(c *fiber.Ctx) (string, error) {
	actor := GetActor(c)
	viewing := c.Query(QueryViewingSchool)
	if actor.IsAdmin() {
		return viewing, nil
	}
	if viewing != "" && viewing != actor.SchoolID {
		return "", domain.ErrForbidden
	}
	return actor.SchoolID, nil
}
