// models/review_decision.go
package models

import (
	"time"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// ReviewDecision records an admin's verdict on a submitted idea. Immutable
// once written; the unique index on IdeaID keeps it to one per idea.
type ReviewDecision struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	IdeaID     string `gorm:"uniqueIndex;not null;size:36" json:"idea_id"`
	Idea       *Idea  `gorm:"foreignKey:IdeaID" json:"idea,omitempty"`
	ReviewerID uint   `gorm:"not null;index" json:"reviewer_id"`
	Reviewer   *User  `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`

	Decision string `gorm:"not null;size:20" json:"decision"`
	Reason   string `gorm:"type:text" json:"reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (ReviewDecision) TableName() string {
	return "review_decisions"
}
