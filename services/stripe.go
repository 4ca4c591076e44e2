// services/stripe.go - Stripe-backed PaymentGateway
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"

	"pitchdesk/config"
)

const metadataIdeaKey = "ideaId"

// StripeGateway implements PaymentGateway against Stripe Checkout. The
// client is owned by the struct; there is no package-level key state.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway builds a gateway from explicit credentials. A nil api
// (missing secret key) yields ErrGatewayUnavailable on use rather than a
// startup failure, so the rest of the app still serves.
func NewStripeGateway(cfg config.Stripe) *StripeGateway {
	g := &StripeGateway{webhookSecret: cfg.WebhookSecret}
	if cfg.SecretKey != "" {
		g.api = &client.API{}
		g.api.Init(cfg.SecretKey, nil)
	}
	return g
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, ideaID string, amountCents int64, successURL, cancelURL string) (*SessionHandle, error) {
	if g.api == nil {
		return nil, ErrGatewayUnavailable
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Idea Submission"),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata(metadataIdeaKey, ideaID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, &GatewayError{Op: "create session", Err: err}
	}

	return &SessionHandle{SessionID: sess.ID, CheckoutURL: sess.URL}, nil
}

func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*SessionOutcome, error) {
	if g.api == nil {
		return nil, ErrGatewayUnavailable
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		return nil, &GatewayError{Op: "retrieve session", Err: err}
	}

	return &SessionOutcome{
		SessionID:   sess.ID,
		Outcome:     normalizeOutcome(sess),
		IdeaID:      sess.Metadata[metadataIdeaKey],
		AmountCents: sess.AmountTotal,
	}, nil
}

// VerifyWebhook checks the Stripe-Signature header against the shared
// webhook secret and parses the event. Anything past this check is treated
// as gateway-authentic.
func (g *StripeGateway) VerifyWebhook(payload []byte, signatureHeader string) (*CheckoutEvent, error) {
	if g.webhookSecret == "" {
		return nil, ErrGatewayUnavailable
	}

	event, err := webhook.ConstructEvent(payload, signatureHeader, g.webhookSecret)
	if err != nil {
		return nil, ErrInvalidSignature
	}

	out := &CheckoutEvent{
		ID:         event.ID,
		Type:       string(event.Type),
		RawPayload: payload,
	}
	if out.Type == EventCheckoutCompleted {
		var sess struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		}
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, &GatewayError{Op: "decode event", Err: err}
		}
		out.SessionID = sess.ID
		out.IdeaID = sess.Metadata[metadataIdeaKey]
	}
	return out, nil
}

func normalizeOutcome(sess *stripe.CheckoutSession) PaymentOutcome {
	if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		return OutcomePaid
	}
	if sess.Status == stripe.CheckoutSessionStatusExpired {
		return OutcomeFailed
	}
	return OutcomePending
}
