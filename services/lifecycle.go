// services/lifecycle.go - Idea lifecycle engine
//
// Owns the idea status state machine. Every status advance goes through
// Store.ConditionalUpdateIdeaStatus so that concurrent callers (webhook
// delivery racing a client verification poll) get exactly one winner; the
// loser sees zero rows affected and treats that as someone-else-did-it, not
// as an error.
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pitchdesk/config"
	"pitchdesk/models"
)

type Lifecycle struct {
	store   Store
	gateway PaymentGateway
	cfg     *config.Config
	now     func() time.Time
}

func NewLifecycle(store Store, gateway PaymentGateway, cfg *config.Config) *Lifecycle {
	return &Lifecycle{
		store:   store,
		gateway: gateway,
		cfg:     cfg,
		now:     time.Now,
	}
}

// CreateDraft inserts a new idea in draft for the submitter.
func (s *Lifecycle) CreateDraft(ctx context.Context, submitterID uint, ideaID, title, summary, details string) (*models.Idea, error) {
	if title == "" || summary == "" || details == "" {
		return nil, Validationf("title, summary and details are required")
	}

	now := s.now().UTC()
	idea := &models.Idea{
		ID:          ideaID,
		SubmitterID: submitterID,
		Title:       title,
		Summary:     summary,
		Details:     details,
		Status:      models.IdeaStatusDraft,
		PriceCents:  s.cfg.IdeaPriceCents,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertIdea(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

// RequestSubmission opens a checkout session for a draft (or retried
// payment_pending) idea and moves it to payment_pending. Ideas already past
// the payment gate fail with ErrAlreadySubmitted.
func (s *Lifecycle) RequestSubmission(ctx context.Context, ideaID string, submitterID uint) (*SessionHandle, error) {
	idea, err := s.store.GetIdeaForSubmitter(ctx, ideaID, submitterID)
	if err != nil {
		return nil, err
	}
	if idea.IsLocked() {
		return nil, ErrAlreadySubmitted
	}

	handle, err := s.gateway.CreateCheckoutSession(ctx, idea.ID, idea.PriceCents,
		s.cfg.AppURL+"/dashboard?checkout=success",
		s.cfg.AppURL+"/submit?checkout=cancel")
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		IdeaID:          idea.ID,
		StripeSessionID: handle.SessionID,
		AmountCents:     idea.PriceCents,
		Status:          models.PaymentStatusPending,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.store.InsertPayment(ctx, payment); err != nil {
		return nil, err
	}

	rows, err := s.store.ConditionalUpdateIdeaStatus(ctx, idea.ID,
		models.PreSubmissionStatuses, models.IdeaStatusPaymentPending, nil)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// A concurrent reconciliation moved the idea past the gate between
		// our read and this write.
		return nil, ErrAlreadySubmitted
	}
	return handle, nil
}

// ReconcileParams resolves the payment attempt either by session id (the
// webhook / redirect path) or by most-recent-for-idea (manual client poll).
type ReconcileParams struct {
	IdeaID      string
	SessionID   string
	SubmitterID uint
}

// ReconcileResult carries the non-error outcomes: Verified=false with a
// reason means the payment is still processing, which is not a failure.
type ReconcileResult struct {
	Verified bool   `json:"verified"`
	IdeaID   string `json:"idea_id"`
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
}

func (s *Lifecycle) ReconcilePayment(ctx context.Context, params ReconcileParams) (*ReconcileResult, error) {
	if params.IdeaID == "" && params.SessionID == "" {
		return nil, Validationf("ideaId or sessionId is required")
	}

	var payment *models.Payment
	resolvedIdeaID := params.IdeaID

	if params.SessionID != "" {
		p, err := s.store.PaymentBySessionID(ctx, params.SessionID)
		if err != nil {
			return nil, err
		}
		payment = p
		resolvedIdeaID = p.IdeaID
	}

	idea, err := s.store.GetIdeaForSubmitter(ctx, resolvedIdeaID, params.SubmitterID)
	if err != nil {
		return nil, err
	}

	// Idempotent fast path: once past the gate the gateway is not consulted
	// again.
	if idea.IsLocked() {
		return &ReconcileResult{Verified: true, IdeaID: idea.ID, Status: idea.Status}, nil
	}

	if payment == nil {
		p, err := s.store.LatestPaymentForIdea(ctx, idea.ID)
		if errors.Is(err, ErrNotFound) {
			return &ReconcileResult{
				Verified: false,
				IdeaID:   idea.ID,
				Status:   idea.Status,
				Reason:   "no payment session exists for this idea",
			}, nil
		}
		if err != nil {
			return nil, err
		}
		payment = p
	}

	verified, err := s.confirmAndAdvance(ctx, idea, payment)
	if err != nil {
		return nil, err
	}
	if !verified {
		return &ReconcileResult{Verified: false, IdeaID: idea.ID, Status: idea.Status}, nil
	}
	return &ReconcileResult{Verified: true, IdeaID: idea.ID, Status: models.IdeaStatusSubmitted}, nil
}

// ApplyWebhookEvent is the asynchronous counterpart of ReconcilePayment.
// The gateway delivers at-least-once; the event-id dedup record plus the
// conditional update make replays harmless.
func (s *Lifecycle) ApplyWebhookEvent(ctx context.Context, event *CheckoutEvent) error {
	if event.Type != EventCheckoutCompleted {
		return nil
	}

	created, err := s.store.RecordWebhookEvent(ctx, &models.WebhookEvent{
		Provider:        "stripe",
		ProviderEventID: event.ID,
		EventType:       event.Type,
		PayloadJSON:     string(event.RawPayload),
		CreatedAt:       s.now().UTC(),
	})
	if err != nil {
		return err
	}
	if !created {
		// Replay of an already-recorded delivery.
		return nil
	}

	if err := s.applyCheckoutCompleted(ctx, event); err != nil {
		// Permanent processing problems are recorded rather than returned,
		// so the gateway does not retry into the same wall forever.
		log.Printf("webhook %s: %v", event.ID, err)
		return s.store.MarkWebhookEventProcessed(ctx, "stripe", event.ID, err.Error())
	}
	return s.store.MarkWebhookEventProcessed(ctx, "stripe", event.ID, "")
}

func (s *Lifecycle) applyCheckoutCompleted(ctx context.Context, event *CheckoutEvent) error {
	payment, err := s.store.PaymentBySessionID(ctx, event.SessionID)
	if err != nil {
		return fmt.Errorf("resolve session %s: %w", event.SessionID, err)
	}
	if event.IdeaID != "" && event.IdeaID != payment.IdeaID {
		return fmt.Errorf("event metadata idea %s does not match payment idea %s", event.IdeaID, payment.IdeaID)
	}

	idea, err := s.store.GetIdea(ctx, payment.IdeaID)
	if err != nil {
		return err
	}
	if idea.IsLocked() {
		return nil
	}

	verified, err := s.confirmAndAdvance(ctx, idea, payment)
	if err != nil {
		return err
	}
	if !verified {
		return fmt.Errorf("gateway did not confirm session %s as paid", payment.StripeSessionID)
	}
	return nil
}

// confirmAndAdvance re-checks the session with the gateway and, when it is
// paid for the right idea at the right amount, marks the payment paid and
// advances the idea to submitted. Zero rows affected on the conditional
// update means a concurrent caller already completed the transition, which
// counts as success.
func (s *Lifecycle) confirmAndAdvance(ctx context.Context, idea *models.Idea, payment *models.Payment) (bool, error) {
	outcome, err := s.gateway.RetrieveSession(ctx, payment.StripeSessionID)
	if err != nil {
		return false, err
	}

	if outcome.Outcome != OutcomePaid {
		return false, nil
	}
	if outcome.IdeaID != idea.ID || outcome.AmountCents != payment.AmountCents {
		// Metadata or amount mismatch is a verification failure, never a
		// reason to advance state.
		return false, nil
	}

	now := s.now().UTC()
	if err := s.store.MarkPaymentPaid(ctx, payment.StripeSessionID, now); err != nil {
		return false, err
	}

	_, err = s.store.ConditionalUpdateIdeaStatus(ctx, idea.ID,
		models.PreSubmissionStatuses, models.IdeaStatusSubmitted,
		map[string]any{"submitted_at": now})
	if err != nil {
		return false, err
	}
	return true, nil
}
