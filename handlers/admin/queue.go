// handlers/admin/queue.go
package admin

import (
	"github.com/gofiber/fiber/v2"

	"pitchdesk/handlers"
	"pitchdesk/models"
)

type QueueEntry struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Summary        string  `json:"summary"`
	Details        string  `json:"details"`
	SubmitterEmail *string `json:"submitter_email"`
	SubmittedAt    *string `json:"submitted_at"`
	CreatedAt      string  `json:"created_at"`
}

// GetReviewQueue lists all ideas awaiting review, oldest submission first,
// so reviewers work the queue in arrival order.
func GetReviewQueue(c *fiber.Ctx) error {
	ideas, err := store.ListIdeasByStatus(c.UserContext(), models.IdeaStatusSubmitted)
	if err != nil {
		return handlers.RespondError(c, err)
	}

	queue := make([]QueueEntry, 0, len(ideas))
	for _, idea := range ideas {
		entry := QueueEntry{
			ID:        idea.ID,
			Title:     idea.Title,
			Summary:   idea.Summary,
			Details:   idea.Details,
			CreatedAt: idea.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
		if idea.Submitter != nil {
			entry.SubmitterEmail = idea.Submitter.Email
		}
		if idea.SubmittedAt != nil {
			formatted := idea.SubmittedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
			entry.SubmittedAt = &formatted
		}
		queue = append(queue, entry)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(queue),
		"queue":   queue,
	})
}
