// services/review_test.go
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"pitchdesk/models"
)

func newTestReview(t *testing.T) (*Review, *Lifecycle, *memStore, *fakeGateway) {
	t.Helper()
	store := newMemStore()
	gateway := newFakeGateway()
	cfg := testConfig()
	return NewReview(store, cfg), NewLifecycle(store, gateway, cfg), store, gateway
}

func seedSubmitted(t *testing.T, lc *Lifecycle, store *memStore, gateway *fakeGateway, ideaID string) {
	t.Helper()
	seedDraft(t, lc, 1, ideaID)
	submitIdea(t, lc, store, gateway, ideaID, 1)
}

func TestDecideApprove(t *testing.T) {
	review, lc, store, gateway := newTestReview(t)
	seedSubmitted(t, lc, store, gateway, "idea-1")

	result, err := review.Decide(context.Background(), DecideParams{
		IdeaID:             "idea-1",
		Decision:           models.DecisionApprove,
		ReviewerExternalID: "admin-1",
		ReviewerEmail:      "admin@example.com",
	})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if result.Status != models.IdeaStatusApprovedInitial {
		t.Errorf("status = %q, want approved_initial", result.Status)
	}
	if got := store.ideaStatus("idea-1"); got != models.IdeaStatusApprovedInitial {
		t.Errorf("persisted status = %q", got)
	}

	messages := store.messagesForIdea("idea-1")
	if len(messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(messages))
	}
	msg := messages[0]
	if msg.TemplateKey != models.TemplateApprovedInitial || !msg.FromAdmin {
		t.Errorf("unexpected message: %+v", msg)
	}
	if !strings.HasPrefix(msg.Body, "Congrats!") {
		t.Errorf("body = %q", msg.Body)
	}
	if store.decisions["idea-1"] == nil {
		t.Error("decision record missing")
	}
}

func TestDecideReject(t *testing.T) {
	review, lc, store, gateway := newTestReview(t)
	seedSubmitted(t, lc, store, gateway, "idea-1")

	result, err := review.Decide(context.Background(), DecideParams{
		IdeaID:             "idea-1",
		Decision:           models.DecisionReject,
		Reason:             "  Too close to an existing portfolio project.  ",
		ReviewerExternalID: "admin-1",
	})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if result.Status != models.IdeaStatusRejected {
		t.Errorf("status = %q, want rejected", result.Status)
	}

	messages := store.messagesForIdea("idea-1")
	if len(messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(messages))
	}
	want := "Thanks for submitting. We are not looking into this idea right now: Too close to an existing portfolio project."
	if messages[0].Body != want {
		t.Errorf("body = %q, want %q", messages[0].Body, want)
	}
	if store.decisions["idea-1"].Reason != "Too close to an existing portfolio project." {
		t.Errorf("stored reason = %q", store.decisions["idea-1"].Reason)
	}
}

func TestDecideRejectReasonLength(t *testing.T) {
	review, lc, store, gateway := newTestReview(t)
	seedSubmitted(t, lc, store, gateway, "idea-1")

	// 7 non-space chars after trimming: too short.
	_, err := review.Decide(context.Background(), DecideParams{
		IdeaID:             "idea-1",
		Decision:           models.DecisionReject,
		Reason:             "   short1      ",
		ReviewerExternalID: "admin-1",
	})
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if got := store.ideaStatus("idea-1"); got != models.IdeaStatusSubmitted {
		t.Errorf("rejected idea moved to %q on validation failure", got)
	}

	// Exactly 8: accepted.
	_, err = review.Decide(context.Background(), DecideParams{
		IdeaID:             "idea-1",
		Decision:           models.DecisionReject,
		Reason:             "12345678",
		ReviewerExternalID: "admin-1",
	})
	if err != nil {
		t.Fatalf("Decide with 8-char reason: %v", err)
	}
}

func TestDecideUnknownDecision(t *testing.T) {
	review, lc, store, gateway := newTestReview(t)
	seedSubmitted(t, lc, store, gateway, "idea-1")

	_, err := review.Decide(context.Background(), DecideParams{
		IdeaID:             "idea-1",
		Decision:           "escalate",
		ReviewerExternalID: "admin-1",
	})
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestDecideMissingIdea(t *testing.T) {
	review, _, _, _ := newTestReview(t)

	_, err := review.Decide(context.Background(), DecideParams{
		IdeaID:             "idea-missing",
		Decision:           models.DecisionApprove,
		ReviewerExternalID: "admin-1",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDecideNonSubmittedIdea(t *testing.T) {
	review, lc, store, _ := newTestReview(t)
	seedDraft(t, lc, 1, "idea-draft")

	_, err := review.Decide(context.Background(), DecideParams{
		IdeaID:             "idea-draft",
		Decision:           models.DecisionApprove,
		ReviewerExternalID: "admin-1",
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if got := store.ideaStatus("idea-draft"); got != models.IdeaStatusDraft {
		t.Errorf("draft moved to %q", got)
	}
	if len(store.messagesForIdea("idea-draft")) != 0 {
		t.Error("notification sent for a rejected transition")
	}
}

func TestDecideReplayLosesRace(t *testing.T) {
	review, lc, store, gateway := newTestReview(t)
	seedSubmitted(t, lc, store, gateway, "idea-1")

	if _, err := review.Decide(context.Background(), DecideParams{
		IdeaID:             "idea-1",
		Decision:           models.DecisionApprove,
		ReviewerExternalID: "admin-1",
	}); err != nil {
		t.Fatalf("first decision: %v", err)
	}

	_, err := review.Decide(context.Background(), DecideParams{
		IdeaID:             "idea-1",
		Decision:           models.DecisionReject,
		Reason:             "changed our minds after approval",
		ReviewerExternalID: "admin-2",
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if got := store.ideaStatus("idea-1"); got != models.IdeaStatusApprovedInitial {
		t.Errorf("first verdict overwritten, status = %q", got)
	}
	if got := len(store.messagesForIdea("idea-1")); got != 1 {
		t.Errorf("messages = %d, want exactly 1", got)
	}
}

func TestDecideConcurrentSingleWinner(t *testing.T) {
	review, lc, store, gateway := newTestReview(t)
	seedSubmitted(t, lc, store, gateway, "idea-1")

	const reviewers = 8
	var wg sync.WaitGroup
	errs := make([]error, reviewers)
	for i := 0; i < reviewers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			decision := models.DecisionApprove
			reason := ""
			if i%2 == 1 {
				decision = models.DecisionReject
				reason = "duplicate of an earlier submission"
			}
			_, errs[i] = review.Decide(context.Background(), DecideParams{
				IdeaID:             "idea-1",
				Decision:           decision,
				Reason:             reason,
				ReviewerExternalID: "admin-1",
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrInvalidTransition):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
	if got := len(store.messagesForIdea("idea-1")); got != 1 {
		t.Errorf("messages = %d, want exactly 1", got)
	}
}

func TestDecideDivergenceDoesNotFail(t *testing.T) {
	review, lc, store, gateway := newTestReview(t)
	seedSubmitted(t, lc, store, gateway, "idea-1")
	store.failInsertDecision = true
	store.failInsertMessage = true

	// Side-effect failures after the status commit are logged, not returned.
	result, err := review.Decide(context.Background(), DecideParams{
		IdeaID:             "idea-1",
		Decision:           models.DecisionApprove,
		ReviewerExternalID: "admin-1",
	})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if result.Status != models.IdeaStatusApprovedInitial {
		t.Errorf("status = %q", result.Status)
	}
	if got := store.ideaStatus("idea-1"); got != models.IdeaStatusApprovedInitial {
		t.Errorf("persisted status = %q", got)
	}
}

func TestSendAdminMessage(t *testing.T) {
	review, lc, store, gateway := newTestReview(t)
	seedSubmitted(t, lc, store, gateway, "idea-1")

	msg, err := review.SendAdminMessage(context.Background(), "idea-1", "  Could you share traction numbers?  ")
	if err != nil {
		t.Fatalf("SendAdminMessage: %v", err)
	}
	if msg.TemplateKey != models.TemplateCustom || msg.Body != "Could you share traction numbers?" {
		t.Errorf("unexpected message: %+v", msg)
	}

	if _, err := review.SendAdminMessage(context.Background(), "idea-1", "   "); !IsValidation(err) {
		t.Errorf("blank body err = %v, want validation error", err)
	}
	if _, err := review.SendAdminMessage(context.Background(), "idea-missing", "hello there"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing idea err = %v, want ErrNotFound", err)
	}
}
