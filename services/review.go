// services/review.go - Review decision processor
package services

import (
	"context"
	"log"
	"strings"
	"time"

	"pitchdesk/config"
	"pitchdesk/models"
)

// MinRejectReasonLen is the minimum trimmed length of a rejection reason.
const MinRejectReasonLen = 8

type Review struct {
	store Store
	cfg   *config.Config
	now   func() time.Time
}

func NewReview(store Store, cfg *config.Config) *Review {
	return &Review{store: store, cfg: cfg, now: time.Now}
}

type DecideParams struct {
	IdeaID             string
	Decision           string
	Reason             string
	ReviewerExternalID string
	ReviewerEmail      string
}

type DecideResult struct {
	IdeaID  string `json:"idea_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Decide applies an admin verdict to exactly one submitted idea. The
// conditional status update is the commit point; the decision record and
// the notification are best-effort side effects after it — a failure there
// is logged as divergence, never rolled back, since undoing a
// payment-confirmed submission is worse than a missing notification.
func (s *Review) Decide(ctx context.Context, params DecideParams) (*DecideResult, error) {
	if params.IdeaID == "" {
		return nil, Validationf("ideaId is required")
	}

	var targetStatus, templateKey string
	switch params.Decision {
	case models.DecisionApprove:
		targetStatus = models.IdeaStatusApprovedInitial
		templateKey = models.TemplateApprovedInitial
	case models.DecisionReject:
		if len(strings.TrimSpace(params.Reason)) < MinRejectReasonLen {
			return nil, Validationf("rejection reason is required (min %d chars)", MinRejectReasonLen)
		}
		targetStatus = models.IdeaStatusRejected
		templateKey = models.TemplateRejected
	default:
		return nil, Validationf("decision must be approve or reject")
	}

	// First-seen admins get a store identity lazily.
	reviewer, err := s.store.FindOrCreateUserByExternalID(ctx, params.ReviewerExternalID, params.ReviewerEmail)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ConditionalUpdateIdeaStatus(ctx, params.IdeaID,
		[]string{models.IdeaStatusSubmitted}, targetStatus, nil)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if _, err := s.store.GetIdea(ctx, params.IdeaID); err != nil {
			return nil, err
		}
		// Exists but is not submitted: already decided or never paid for.
		return nil, ErrInvalidTransition
	}

	body := s.cfg.ApprovalTemplate
	if params.Decision == models.DecisionReject {
		body = s.cfg.RejectionPrefix + strings.TrimSpace(params.Reason)
	}

	now := s.now().UTC()
	decision := &models.ReviewDecision{
		IdeaID:     params.IdeaID,
		ReviewerID: reviewer.ID,
		Decision:   params.Decision,
		Reason:     strings.TrimSpace(params.Reason),
		CreatedAt:  now,
	}
	if err := s.store.InsertReviewDecision(ctx, decision); err != nil {
		log.Printf("review divergence: idea %s moved to %s but decision insert failed: %v",
			params.IdeaID, targetStatus, err)
	}

	message := &models.Message{
		IdeaID:      params.IdeaID,
		FromAdmin:   true,
		Body:        body,
		TemplateKey: templateKey,
		SentAt:      now,
	}
	if err := s.store.InsertMessage(ctx, message); err != nil {
		log.Printf("review divergence: idea %s moved to %s but notification insert failed: %v",
			params.IdeaID, targetStatus, err)
	}

	return &DecideResult{IdeaID: params.IdeaID, Status: targetStatus, Message: body}, nil
}

// SendAdminMessage inserts an ad-hoc admin message with the custom template
// key. No status invariant is involved beyond authorization at the handler.
func (s *Review) SendAdminMessage(ctx context.Context, ideaID, body string) (*models.Message, error) {
	if ideaID == "" || strings.TrimSpace(body) == "" {
		return nil, Validationf("ideaId and body are required")
	}
	if _, err := s.store.GetIdea(ctx, ideaID); err != nil {
		return nil, err
	}

	message := &models.Message{
		IdeaID:      ideaID,
		FromAdmin:   true,
		Body:        strings.TrimSpace(body),
		TemplateKey: models.TemplateCustom,
		SentAt:      s.now().UTC(),
	}
	if err := s.store.InsertMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}
