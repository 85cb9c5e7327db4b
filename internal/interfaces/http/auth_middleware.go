package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/pkg/jwt"
)

// Locals keys para la identidad del docente en Fiber.
const (
	LocalUserID   = "user_id"
	LocalSchoolID = "school_id"
	LocalRole     = "role"
	LocalName     = "name"
)

// AuthMiddleware valida el Bearer Token JWT (firma HS256 y expiración) y deja la identidad en c.Locals.
// Un cargo ausente o fuera del enum cerrado se rechaza aquí: nunca llega a los handlers.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		role, err := domain.ParseRole(id.Role)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no contiene un cargo válido"})
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalSchoolID, id.SchoolID)
		c.Locals(LocalRole, role)
		c.Locals(LocalName, id.Name)
		return c.Next()
	}
}

// RequireRole autoriza solo a los cargos indicados. Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "cargo no encontrado en el token"})
		}
		if !role.In(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el cargo no tiene permiso para este recurso"})
		}
		return c.Next()
	}
}

// GetActor arma la identidad del docente autenticado.
func GetActor(c *fiber.Ctx) domain.Actor {
	name, _ := c.Locals(LocalName).(string)
	return domain.Actor{UserID: GetUserID(c), SchoolID: GetSchoolID(c), Role: GetRole(c), Name: name}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetSchoolID devuelve la escuela del token.
func GetSchoolID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSchoolID).(string)
	return s
}

// GetRole devuelve el cargo ya validado; "" si no pasó por AuthMiddleware.
func GetRole(c *fiber.Ctx) domain.Role {
	r, _ := c.Locals(LocalRole).(domain.Role)
	return r
}
