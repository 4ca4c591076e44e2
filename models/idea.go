// models/idea.go
package models

import (
	"time"
)

// Idea statuses. The lifecycle only moves forward:
// draft -> payment_pending -> submitted -> approved_initial | rejected.
const (
	IdeaStatusDraft           = "draft"
	IdeaStatusPaymentPending  = "payment_pending"
	IdeaStatusSubmitted       = "submitted"
	IdeaStatusApprovedInitial = "approved_initial"
	IdeaStatusRejected        = "rejected"
)

// PreSubmissionStatuses are the only legal source states for the
// paid transition into submitted.
var PreSubmissionStatuses = []string{IdeaStatusDraft, IdeaStatusPaymentPending}

// Idea is one submitted business concept with a lifecycle status.
type Idea struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	SubmitterID uint   `gorm:"not null;index" json:"submitter_id"`
	Submitter   *User  `gorm:"foreignKey:SubmitterID" json:"submitter,omitempty"`

	Title   string `gorm:"not null;size:200" json:"title"`
	Summary string `gorm:"not null;size:500" json:"summary"`
	Details string `gorm:"not null;type:text" json:"details"`

	Status     string `gorm:"not null;default:'draft';size:32;index" json:"status"`
	PriceCents int64  `gorm:"not null;default:0" json:"price_cents"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

func (Idea) TableName() string {
	return "ideas"
}

// IsDecided reports whether the idea has reached a terminal state.
func (i *Idea) IsDecided() bool {
	return i.Status == IdeaStatusApprovedInitial || i.Status == IdeaStatusRejected
}

// IsLocked reports whether the idea is past the payment gate, i.e. no
// further submission or payment action may change it.
func (i *Idea) IsLocked() bool {
	return i.Status == IdeaStatusSubmitted || i.IsDecided()
}
