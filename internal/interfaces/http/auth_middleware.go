package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/pkg/jwt"
)

// Locals keys para TerminalID y Scope en Fiber.
const (
	LocalTerminalID = "terminal_id"
	LocalScope      = "scope"
)

// AuthMiddleware valida el Bearer Token de servicio y extrae TerminalID y Scope a c.Locals.
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
		terminalID, scope, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalTerminalID, terminalID)
		c.Locals(LocalScope, scope)
		return c.Next()
	}
}

// RequireScope exige que el token tenga alguno de los scopes dados. ledger:write incluye
// ledger:read. Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 401 si el token no trae scope.
//   - 403 si el scope no alcanza.
func RequireScope(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope := GetScope(c)
		if scope == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_SCOPE", Message: "el token no incluye scope"})
		}
		for _, want := range allowed {
			if scope == want || (want == jwt.ScopeRead && scope == jwt.ScopeWrite) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "scope insuficiente: " + scope})
	}
}

// GetTerminalID devuelve el TerminalID del contexto (después del middleware de auth).
func GetTerminalID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalTerminalID).(string)
	return s
}

// GetScope devuelve el scope del contexto (después del middleware de auth).
func GetScope(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalScope).(string)
	return s
}
