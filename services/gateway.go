// services/gateway.go - Payment gateway abstraction
package services

import (
	"context"
)

// PaymentOutcome is the normalized three-valued processor state.
type PaymentOutcome string

const (
	OutcomePending PaymentOutcome = "pending"
	OutcomePaid    PaymentOutcome = "paid"
	OutcomeFailed  PaymentOutcome = "failed"
)

// SessionHandle identifies a processor-side checkout session.
type SessionHandle struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// SessionOutcome is the gateway's view of a session on retrieval. IdeaID is
// read back from session metadata and must match the locally resolved idea
// before any state is advanced.
type SessionOutcome struct {
	SessionID   string
	Outcome     PaymentOutcome
	IdeaID      string
	AmountCents int64
}

// CheckoutEvent is a signature-verified webhook delivery.
type CheckoutEvent struct {
	ID         string
	Type       string
	SessionID  string
	IdeaID     string
	RawPayload []byte
}

// EventCheckoutCompleted is the only event type the lifecycle engine acts on.
const EventCheckoutCompleted = "checkout.session.completed"

// PaymentGateway wraps the external payment processor.
//
// CreateCheckoutSession fails with ErrGatewayUnavailable when credentials
// are absent and *GatewayError on processor rejection. VerifyWebhook must
// reject any payload whose signature does not match with
// ErrInvalidSignature; it is the trust boundary for the webhook path.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, ideaID string, amountCents int64, successURL, cancelURL string) (*SessionHandle, error)
	RetrieveSession(ctx context.Context, sessionID string) (*SessionOutcome, error)
	VerifyWebhook(payload []byte, signatureHeader string) (*CheckoutEvent, error)
}
