package model

import (
	"time"
)

// Stage is one column of a pipeline board. Reserved stages carry a fixed
// SystemStatus and exist in every pipeline; custom stages have an empty
// SystemStatus and live between the pending and confirmed stages.
//
// Stages are hard-deleted: the (pipeline_id, position) unique index must
// keep racing inserts honest, which soft-deleted rows would defeat.
type Stage struct {
	ID           uint         `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt    time.Time    `json:"created_at,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at,omitempty"`
	StageID      string       `gorm:"column:stage_id;uniqueIndex" json:"stage_id,omitempty"`
	PipelineID   string       `gorm:"column:pipeline_id;index:idx_stage_pipeline;uniqueIndex:uk_stage_position,priority:1" json:"pipeline_id,omitempty"`
	Name         string       `gorm:"column:name" json:"name,omitempty"`
	Position     int64        `gorm:"column:position;uniqueIndex:uk_stage_position,priority:2" json:"position,omitempty"`
	SystemStatus SystemStatus `gorm:"column:system_status;type:varchar(16);default:''" json:"system_status,omitempty"`
}

// TableName overrides gorm to use stage table.
func (Stage) TableName() string {
	return "stage"
}

// IsReserved reports whether the stage carries fixed system semantics.
func (s *Stage) IsReserved() bool {
	return s.SystemStatus != ""
}
