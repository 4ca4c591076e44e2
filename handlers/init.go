// handlers/init.go - Handler wiring
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pitchdesk/config"
	"pitchdesk/services"
)

var (
	cfg       *config.Config
	store     services.Store
	gateway   services.PaymentGateway
	lifecycle *services.Lifecycle
)

// Init wires the shared services into the handlers package. Must be called
// once at startup before routes are served.
func Init(c *config.Config, s services.Store, g services.PaymentGateway, l *services.Lifecycle) {
	cfg = c
	store = s
	gateway = g
	lifecycle = l
}

// RespondError maps the service error taxonomy onto HTTP statuses. Shared
// with the admin handlers.
func RespondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	var gatewayErr *services.GatewayError
	switch {
	case services.IsValidation(err):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInvalidSignature):
		status, message = fiber.StatusBadRequest, "Invalid webhook signature"
	case errors.Is(err, services.ErrNotFound):
		status, message = fiber.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrAlreadySubmitted):
		status, message = fiber.StatusConflict, "Idea already submitted"
	case errors.Is(err, services.ErrInvalidTransition):
		status, message = fiber.StatusConflict, "Idea is not awaiting review"
	case errors.Is(err, services.ErrGatewayUnavailable):
		status, message = fiber.StatusServiceUnavailable, "Payment gateway not configured"
	case errors.As(err, &gatewayErr):
		status, message = fiber.StatusBadGateway, "Payment gateway error"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
