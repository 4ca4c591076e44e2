// models/user.go
package models

import (
	"time"
)

// User is the store-side record for an identity-provider account. Rows are
// created lazily the first time an authenticated caller writes anything.
type User struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ExternalID string  `gorm:"uniqueIndex;not null;size:191" json:"external_id"`
	Email      *string `gorm:"uniqueIndex" json:"email,omitempty"`
	IsAdmin    bool    `gorm:"default:false" json:"is_admin"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Ideas []Idea `gorm:"foreignKey:SubmitterID" json:"ideas,omitempty"`
}

func (User) TableName() string {
	return "users"
}
