// models/payment.go
package models

import (
	"time"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Payment is one checkout attempt against the payment processor. An idea
// may accumulate several (abandoned sessions, retries); only a paid one
// gates the transition to submitted, and it is marked paid strictly after
// the gateway confirms completion.
type Payment struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	IdeaID string `gorm:"not null;size:36;index" json:"idea_id"`
	Idea   *Idea  `gorm:"foreignKey:IdeaID" json:"idea,omitempty"`

	StripeSessionID string `gorm:"uniqueIndex;not null;size:191" json:"stripe_session_id"`
	AmountCents     int64  `gorm:"not null" json:"amount_cents"`
	Status          string `gorm:"not null;default:'pending';size:20" json:"status"`

	CreatedAt time.Time  `json:"created_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
