package model

import (
	"time"
)

// Card binds one external order to its current stage within one pipeline.
// Category and city are copied from the order reference at attach time so
// the board can render the card without calling back into the order store;
// the engine never writes to the order itself.
//
// Cards are hard-deleted; the (pipeline_id, order_id) unique index makes
// moves idempotent upserts rather than inserts.
type Card struct {
	ID         uint      `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
	OrderID    string    `gorm:"column:order_id;index:idx_card_order;uniqueIndex:uk_card_pipeline_order,priority:2" json:"order_id,omitempty"`
	PipelineID string    `gorm:"column:pipeline_id;uniqueIndex:uk_card_pipeline_order,priority:1" json:"pipeline_id,omitempty"`
	StageID    string    `gorm:"column:stage_id;index:idx_card_stage" json:"stage_id,omitempty"`
	Category   string    `gorm:"column:category" json:"category,omitempty"`
	City       string    `gorm:"column:city" json:"city,omitempty"`
	MovedAt    time.Time `gorm:"column:moved_at" json:"moved_at,omitempty"`
}

// TableName overrides gorm to use card table.
func (Card) TableName() string {
	return "card"
}
