// services/store.go - Record store surface consumed by the engine services
package services

import (
	"context"
	"time"

	"pitchdesk/models"
)

// Store is the transactional record store the lifecycle and review services
// run against. database.Repository implements it on Postgres; tests use an
// in-memory fake.
//
// ConditionalUpdateIdeaStatus is the load-bearing operation: it must apply
// "set status = to where id = ? and status in fromStatuses" atomically and
// report the affected row count, so that concurrent callers racing on the
// same idea get exactly one winner.
type Store interface {
	GetIdea(ctx context.Context, id string) (*models.Idea, error)
	GetIdeaForSubmitter(ctx context.Context, id string, submitterID uint) (*models.Idea, error)
	ListIdeasBySubmitter(ctx context.Context, submitterID uint) ([]models.Idea, error)
	ListIdeasByStatus(ctx context.Context, status string) ([]models.Idea, error)
	ListAllIdeas(ctx context.Context) ([]models.Idea, error)
	InsertIdea(ctx context.Context, idea *models.Idea) error
	ConditionalUpdateIdeaStatus(ctx context.Context, id string, fromStatuses []string, toStatus string, extra map[string]any) (int64, error)

	InsertPayment(ctx context.Context, payment *models.Payment) error
	MarkPaymentPaid(ctx context.Context, sessionID string, paidAt time.Time) error
	PaymentBySessionID(ctx context.Context, sessionID string) (*models.Payment, error)
	LatestPaymentForIdea(ctx context.Context, ideaID string) (*models.Payment, error)

	InsertReviewDecision(ctx context.Context, decision *models.ReviewDecision) error
	InsertMessage(ctx context.Context, message *models.Message) error
	ListMessagesForIdeas(ctx context.Context, ideaIDs []string) ([]models.Message, error)
	ListAllMessages(ctx context.Context) ([]models.Message, error)

	FindOrCreateUserByExternalID(ctx context.Context, externalID, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// RecordWebhookEvent inserts a delivery record, reporting created=false
	// when the (provider, event id) pair was already seen.
	RecordWebhookEvent(ctx context.Context, event *models.WebhookEvent) (created bool, err error)
	MarkWebhookEventProcessed(ctx context.Context, provider, providerEventID string, processingError string) error
}
