// handlers/checkout.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pitchdesk/middleware"
	"pitchdesk/services"
)

type CheckoutSessionRequest struct {
	IdeaID string `json:"ideaId"`
}

type VerifyCheckoutRequest struct {
	IdeaID    string `json:"ideaId"`
	SessionID string `json:"sessionId"`
}

// CreateCheckoutSession opens a gateway checkout session for a draft idea
// and moves it to payment_pending.
func CreateCheckoutSession(c *fiber.Ctx) error {
	externalID, err := middleware.ExternalID(c)
	if err != nil {
		return err
	}

	var req CheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil || req.IdeaID == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "ideaId is required",
		})
	}

	user, err := store.FindOrCreateUserByExternalID(c.UserContext(), externalID, middleware.Email(c))
	if err != nil {
		return RespondError(c, err)
	}

	handle, err := lifecycle.RequestSubmission(c.UserContext(), req.IdeaID, user.ID)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"url":        handle.CheckoutURL,
		"session_id": handle.SessionID,
	})
}

// VerifyCheckout is the client-initiated reconciliation poll. A pending
// payment comes back as verified=false with status 200 — still processing
// is not an error.
func VerifyCheckout(c *fiber.Ctx) error {
	externalID, err := middleware.ExternalID(c)
	if err != nil {
		return err
	}

	var req VerifyCheckoutRequest
	_ = c.BodyParser(&req)

	user, err := store.FindOrCreateUserByExternalID(c.UserContext(), externalID, middleware.Email(c))
	if err != nil {
		return RespondError(c, err)
	}

	result, err := lifecycle.ReconcilePayment(c.UserContext(), services.ReconcileParams{
		IdeaID:      req.IdeaID,
		SessionID:   req.SessionID,
		SubmitterID: user.ID,
	})
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"verified": result.Verified,
		"idea_id":  result.IdeaID,
		"status":   result.Status,
		"reason":   result.Reason,
	})
}
