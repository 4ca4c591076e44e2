// handlers/admin/messages.go
package admin

import (
	"github.com/gofiber/fiber/v2"

	"pitchdesk/handlers"
)

type SendMessageRequest struct {
	IdeaID string `json:"ideaId"`
	Body   string `json:"body"`
}

// SendMessage posts an ad-hoc admin note to an idea's submitter.
func SendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	message, err := review.SendAdminMessage(c.UserContext(), req.IdeaID, req.Body)
	if err != nil {
		return handlers.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// GetMessages lists every notification ever sent, newest first. Used by the
// admin console to audit what submitters were told.
func GetMessages(c *fiber.Ctx) error {
	messages, err := store.ListAllMessages(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"count":    len(messages),
		"messages": messages,
	})
}
