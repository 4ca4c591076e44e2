// handlers/admin/review.go
package admin

import (
	"github.com/gofiber/fiber/v2"

	"pitchdesk/handlers"
	"pitchdesk/middleware"
	"pitchdesk/services"
)

type ReviewRequest struct {
	IdeaID   string `json:"ideaId"`
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// ReviewIdea applies an approve/reject verdict to one submitted idea.
// Replays and races both come back 409: the first verdict wins.
func ReviewIdea(c *fiber.Ctx) error {
	externalID, err := middleware.ExternalID(c)
	if err != nil {
		return err
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	result, err := review.Decide(c.UserContext(), services.DecideParams{
		IdeaID:             req.IdeaID,
		Decision:           req.Decision,
		Reason:             req.Reason,
		ReviewerExternalID: externalID,
		ReviewerEmail:      middleware.Email(c),
	})
	if err != nil {
		return handlers.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"idea_id": result.IdeaID,
		"status":  result.Status,
		"message": result.Message,
	})
}
