// middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"pitchdesk/config"
)

// Roles resolved for a caller. The identity provider itself is external:
// tokens carry its subject, e-mail and an optional role claim, and this
// package only turns that assertion into a resolved role.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var cfg *config.Config

// Init wires the loaded configuration into the middleware package. Must be
// called before any request is served.
func Init(c *config.Config) {
	cfg = c
}

// AuthMiddleware validates the Bearer token and stores the caller's
// identity assertion on the request context.
func AuthMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(401).JSON(fiber.Map{"error": "Missing authorization header"})
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization header format"})
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(401, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	externalID, _ := claims["sub"].(string)
	if externalID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "Token missing subject"})
	}
	email, _ := claims["email"].(string)
	roleClaim, _ := claims["role"].(string)

	c.Locals("externalId", externalID)
	c.Locals("email", email)
	c.Locals("role", RoleOf(roleClaim, email, cfg))

	return c.Next()
}

// AdminAuthMiddleware runs after AuthMiddleware and rejects non-admin
// callers.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	if !IsAdmin(c) {
		return c.Status(403).JSON(fiber.Map{"error": "Access denied. Admin privileges required."})
	}
	return c.Next()
}

// RoleOf resolves a caller's role. Precedence: trusted role claim first,
// then the configured admin e-mail allow-list.
func RoleOf(roleClaim, email string, cfg *config.Config) string {
	if roleClaim == RoleAdmin {
		return RoleAdmin
	}
	if cfg != nil && email != "" && cfg.IsAdminEmail(email) {
		return RoleAdmin
	}
	return RoleUser
}

// ExternalID returns the authenticated caller's identity-provider subject.
func ExternalID(c *fiber.Ctx) (string, error) {
	id, _ := c.Locals("externalId").(string)
	if id == "" {
		return "", fiber.NewError(401, "User not authenticated")
	}
	return id, nil
}

// Email returns the authenticated caller's e-mail, possibly empty.
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals("email").(string)
	return email
}

// IsAdmin reports whether the current caller resolved to the admin role.
func IsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals("role").(string)
	return role == RoleAdmin
}
