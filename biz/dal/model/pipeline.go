package model

import (
	"time"

	"gorm.io/gorm"
)

// Pipeline represents one provider workflow: an ordered set of stages
// through which incoming orders progress. Settings is an opaque JSON blob
// interpreted only by the board UI (card colours, visible fields, the
// show_stage_names flag for the client projection).
type Pipeline struct {
	ID          uint           `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	PipelineID  string         `gorm:"column:pipeline_id;uniqueIndex" json:"pipeline_id,omitempty"`
	ProfileID   string         `gorm:"column:profile_id;index:idx_pipeline_profile" json:"profile_id,omitempty"`
	Name        string         `gorm:"column:name" json:"name,omitempty"`
	Description string         `gorm:"column:description;type:varchar(512)" json:"description,omitempty"`
	Settings    string         `gorm:"column:settings;type:text" json:"settings,omitempty"`
	IsDefault   bool           `gorm:"column:is_default;default:false" json:"is_default"`
}

// TableName overrides gorm to use pipeline table.
func (Pipeline) TableName() string {
	return "pipeline"
}
