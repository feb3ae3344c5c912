package model

import (
	"time"

	"gorm.io/gorm"
)

// Profile mirrors the provider profile owning a set of pipelines. The full
// profile lives in the marketplace core; the engine keeps only what it needs
// to resolve ownership for authorization.
type Profile struct {
	ID          uint           `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	ProfileID   string         `gorm:"column:profile_id;uniqueIndex" json:"profile_id,omitempty"`
	UserID      int64          `gorm:"column:user_id;index" json:"user_id,omitempty"`
	DisplayName string         `gorm:"column:display_name" json:"display_name,omitempty"`
}

// TableName overrides gorm to use profile table.
func (Profile) TableName() string {
	return "profile"
}
