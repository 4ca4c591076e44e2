// handlers/messages.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pitchdesk/middleware"
	"pitchdesk/models"
)

type NotificationResponse struct {
	ID          uint   `json:"id"`
	IdeaID      string `json:"idea_id"`
	IdeaTitle   string `json:"idea_title"`
	Body        string `json:"body"`
	TemplateKey string `json:"template_key"`
	SentAt      string `json:"sent_at"`
}

// GetMyMessages returns the caller's notifications newest first, joined with
// the owning idea's title.
func GetMyMessages(c *fiber.Ctx) error {
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

	ideaIDs := make([]string, 0, len(ideas))
	titles := make(map[string]string, len(ideas))
	for _, idea := range ideas {
		ideaIDs = append(ideaIDs, idea.ID)
		titles[idea.ID] = idea.Title
	}

	var messages []models.Message
	if len(ideaIDs) > 0 {
		messages, err = store.ListMessagesForIdeas(c.UserContext(), ideaIDs)
		if err != nil {
			return RespondError(c, err)
		}
	}

	out := make([]NotificationResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, NotificationResponse{
			ID:          msg.ID,
			IdeaID:      msg.IdeaID,
			IdeaTitle:   titles[msg.IdeaID],
			Body:        msg.Body,
			TemplateKey: msg.TemplateKey,
			SentAt:      msg.SentAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"messages": out,
	})
}
