// handlers/webhooks.go
package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// StripeWebhook receives gateway push notifications. The signature check is
// the trust boundary: nothing is read from the payload, and no state is
// touched, before it passes.
func StripeWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Missing Stripe-Signature header",
		})
	}

	event, err := gateway.VerifyWebhook(c.Body(), signature)
	if err != nil {
		return RespondError(c, err)
	}

	if err := lifecycle.ApplyWebhookEvent(c.UserContext(), event); err != nil {
		return RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"received": true,
	})
}
