// database/repository.go - GORM-backed implementation of services.Store
package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pitchdesk/models"
	"pitchdesk/services"
)

// Repository implements services.Store on PostgreSQL.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	return err
}

// ---------- ideas ----------

func (r *Repository) GetIdea(ctx context.Context, id string) (*models.Idea, error) {
	var idea models.Idea
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&idea).Error; err != nil {
		return nil, translate(err)
	}
	return &idea, nil
}

func (r *Repository) GetIdeaForSubmitter(ctx context.Context, id string, submitterID uint) (*models.Idea, error) {
	var idea models.Idea
	err := r.db.WithContext(ctx).
		Where("id = ? AND submitter_id = ?", id, submitterID).
		First(&idea).Error
	if err != nil {
		return nil, translate(err)
	}
	return &idea, nil
}

func (r *Repository) ListIdeasBySubmitter(ctx context.Context, submitterID uint) ([]models.Idea, error) {
	var ideas []models.Idea
	err := r.db.WithContext(ctx).
		Where("submitter_id = ?", submitterID).
		Order("created_at DESC").
		Find(&ideas).Error
	return ideas, err
}

func (r *Repository) ListIdeasByStatus(ctx context.Context, status string) ([]models.Idea, error) {
	var ideas []models.Idea
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Preload("Submitter").
		Find(&ideas).Error
	return ideas, err
}

func (r *Repository) ListAllIdeas(ctx context.Context) ([]models.Idea, error) {
	var ideas []models.Idea
	err := r.db.WithContext(ctx).Find(&ideas).Error
	return ideas, err
}

func (r *Repository) InsertIdea(ctx context.Context, idea *models.Idea) error {
	return r.db.WithContext(ctx).Create(idea).Error
}

// ConditionalUpdateIdeaStatus is the compare-and-set every status advance
// goes through. The WHERE clause carries the allowed source states, so two
// racing callers get exactly one affected row between them.
func (r *Repository) ConditionalUpdateIdeaStatus(ctx context.Context, id string, fromStatuses []string, toStatus string, extra map[string]any) (int64, error) {
	updates := map[string]any{
		"status":     toStatus,
		"updated_at": time.Now().UTC(),
	}
	for field, value := range extra {
		updates[field] = value
	}

	result := r.db.WithContext(ctx).
		Model(&models.Idea{}).
		Where("id = ? AND status IN ?", id, fromStatuses).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// ---------- payments ----------

func (r *Repository) InsertPayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *Repository) MarkPaymentPaid(ctx context.Context, sessionID string, paidAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("stripe_session_id = ?", sessionID).
		Updates(map[string]any{
			"status":  models.PaymentStatusPaid,
			"paid_at": paidAt,
		}).Error
}

func (r *Repository) PaymentBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("stripe_session_id = ?", sessionID).
		First(&payment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *Repository) LatestPaymentForIdea(ctx context.Context, ideaID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("idea_id = ?", ideaID).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

// ---------- decisions & messages ----------

func (r *Repository) InsertReviewDecision(ctx context.Context, decision *models.ReviewDecision) error {
	// The unique index on idea_id makes a second decision insert a no-op
	// rather than an error; the status guard already decided the winner.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(decision).Error
}

func (r *Repository) InsertMessage(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(message).Error
}

func (r *Repository) ListMessagesForIdeas(ctx context.Context, ideaIDs []string) ([]models.Message, error) {
	if len(ideaIDs) == 0 {
		return nil, nil
	}
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("idea_id IN ?", ideaIDs).
		Order("sent_at DESC").
		Find(&messages).Error
	return messages, err
}

func (r *Repository) ListAllMessages(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).Find(&messages).Error
	return messages, err
}

// ---------- users ----------

func (r *Repository) FindOrCreateUserByExternalID(ctx context.Context, externalID, email string) (*models.User, error) {
	var user models.User
	attrs := models.User{ExternalID: externalID}
	if email != "" {
		attrs.Email = &email
	}
	err := r.db.WithContext(ctx).
		Where(models.User{ExternalID: externalID}).
		FirstOrCreate(&user, attrs).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Find(&users).Error
	return users, err
}

// ---------- webhook events ----------

func (r *Repository) RecordWebhookEvent(ctx context.Context, event *models.WebhookEvent) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) MarkWebhookEventProcessed(ctx context.Context, provider, providerEventID string, processingError string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.WebhookEvent{}).
		Where("provider = ? AND provider_event_id = ?", provider, providerEventID).
		Updates(map[string]any{
			"processed_at":     now,
			"processing_error": processingError,
		}).Error
}
