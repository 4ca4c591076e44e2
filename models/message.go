// models/message.go
package models

import (
	"time"
)

// Message template keys. The two terminal keys are written exactly once per
// idea (enforced by a partial unique index, see database/migrate.go);
// custom is for ad-hoc admin messages.
const (
	TemplateApprovedInitial = "approved_initial"
	TemplateRejected        = "rejected"
	TemplateCustom          = "custom"
)

// Message is a notification sent to an idea's submitter, either generated
// by a review decision or authored by an admin.
type Message struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	IdeaID string `gorm:"not null;size:36;index" json:"idea_id"`
	Idea   *Idea  `gorm:"foreignKey:IdeaID" json:"idea,omitempty"`

	FromAdmin   bool   `gorm:"default:false" json:"from_admin"`
	Body        string `gorm:"not null;type:text" json:"body"`
	TemplateKey string `gorm:"not null;size:32" json:"template_key"`

	SentAt time.Time `gorm:"index" json:"sent_at"`
}

func (Message) TableName() string {
	return "messages"
}
