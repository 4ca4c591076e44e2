// handlers/admin/overview.go
package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pitchdesk/handlers"
	"pitchdesk/models"
)

// GetOverview returns pipeline counts by status plus the age of the oldest
// idea still awaiting review. The hours figure is display-only; nothing
// downstream branches on it.
func GetOverview(c *fiber.Ctx) error {
	ideas, err := store.ListAllIdeas(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, err)
	}

	counts := map[string]int{
		models.IdeaStatusDraft:           0,
		models.IdeaStatusPaymentPending:  0,
		models.IdeaStatusSubmitted:       0,
		models.IdeaStatusApprovedInitial: 0,
		models.IdeaStatusRejected:        0,
	}
	var oldestPending *time.Time
	for i := range ideas {
		idea := &ideas[i]
		counts[idea.Status]++
		if idea.Status != models.IdeaStatusSubmitted {
			continue
		}
		at := idea.CreatedAt
		if idea.SubmittedAt != nil {
			at = *idea.SubmittedAt
		}
		if oldestPending == nil || at.Before(*oldestPending) {
			t := at
			oldestPending = &t
		}
	}

	var oldestPendingHours *float64
	if oldestPending != nil {
		hours := time.Since(*oldestPending).Hours()
		if hours < 0 {
			hours = 0
		}
		oldestPendingHours = &hours
	}

	return c.JSON(fiber.Map{
		"success":              true,
		"total":                len(ideas),
		"by_status":            counts,
		"oldest_pending_hours": oldestPendingHours,
	})
}
