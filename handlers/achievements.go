// handlers/achievements.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pitchdesk/middleware"
	"pitchdesk/models"
	"pitchdesk/services"
)

// GetMyAchievements evaluates the full badge catalog against the caller's
// idea and notification history.
func GetMyAchievements(c *fiber.Ctx) error {
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

	var messages []models.Message
	if len(ideas) > 0 {
		ideaIDs := make([]string, 0, len(ideas))
		for _, idea := range ideas {
			ideaIDs = append(ideaIDs, idea.ID)
		}
		messages, err = store.ListMessagesForIdeas(c.UserContext(), ideaIDs)
		if err != nil {
			return RespondError(c, err)
		}
	}

	metrics := services.ComputeMetrics(ideas, messages)
	return c.JSON(fiber.Map{
		"success":      true,
		"metrics":      metrics,
		"achievements": services.EvaluateCatalog(metrics),
	})
}

// GetAchievementStats returns population-wide unlock rates for every badge.
// The caller's own unlocks are in GetMyAchievements; this endpoint only
// reports aggregates so no per-user data leaks across accounts.
func GetAchievementStats(c *fiber.Ctx) error {
	users, err := store.ListUsers(c.UserContext())
	if err != nil {
		return RespondError(c, err)
	}
	ideas, err := store.ListAllIdeas(c.UserContext())
	if err != nil {
		return RespondError(c, err)
	}
	messages, err := store.ListAllMessages(c.UserContext())
	if err != nil {
		return RespondError(c, err)
	}

	allMetrics := services.MetricsByUser(users, ideas, messages)
	return c.JSON(fiber.Map{
		"success":      true,
		"total_users":  len(allMetrics),
		"unlock_rates": services.AggregateUnlockRates(allMetrics),
	})
}
