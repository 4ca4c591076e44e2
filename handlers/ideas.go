// handlers/ideas.go
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pitchdesk/middleware"
)

type CreateIdeaRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Details string `json:"details"`
}

// CreateIdea inserts a new draft idea for the authenticated caller.
func CreateIdea(c *fiber.Ctx) error {
	externalID, err := middleware.ExternalID(c)
	if err != nil {
		return err
	}

	var req CreateIdeaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	user, err := store.FindOrCreateUserByExternalID(c.UserContext(), externalID, middleware.Email(c))
	if err != nil {
		return RespondError(c, err)
	}

	idea, err := lifecycle.CreateDraft(c.UserContext(), user.ID, uuid.New().String(),
		req.Title, req.Summary, req.Details)
	if err != nil {
		return RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"idea":    idea,
	})
}

// GetMyIdeas lists the caller's ideas, newest first.
func GetMyIdeas(c *fiber.Ctx) error {
	externalID, err := middleware.ExternalID(c)
	if err != nil {
		return err
	}

	user, err := store.FindOrCreateUserByExternalID(c.UserContext(), externalID, middleware.Email(c))
	if err != nil {
		return RespondError(c, err)
	}

	ideas, err := store.ListIdeasBySubmitter(c.UserContext(), user.ID)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"ideas":   ideas,
	})
}
