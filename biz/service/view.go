package service

import (
	"encoding/json"
	"time"

	"github.com/funwhale/orderboard/biz/dal/model"
)

// StageView is the API projection of a stage, carrying the client-visible
// status next to the raw stage data.
type StageView struct {
	StageID      string             `json:"stage_id"`
	PipelineID   string             `json:"pipeline_id"`
	Name         string             `json:"name"`
	Position     int64              `json:"position"`
	SystemStatus model.SystemStatus `json:"system_status,omitempty"`
	ClientStatus model.ClientStatus `json:"client_status"`
}

// PipelineView is the API projection of a pipeline with its ordered stages.
type PipelineView struct {
	PipelineID  string      `json:"pipeline_id"`
	ProfileID   string      `json:"profile_id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Settings    string      `json:"settings,omitempty"`
	IsDefault   bool        `json:"is_default"`
	Stages      []StageView `json:"stages,omitempty"`
}

// CardView is the API projection of one order-in-pipeline assignment.
type CardView struct {
	OrderID      string             `json:"order_id"`
	PipelineID   string             `json:"pipeline_id"`
	StageID      string             `json:"stage_id"`
	Category     string             `json:"category,omitempty"`
	City         string             `json:"city,omitempty"`
	MovedAt      time.Time          `json:"moved_at"`
	ClientStatus model.ClientStatus `json:"client_status"`
}

// OrderStatusView is the reduced projection exposed to the order's client.
// StageName is populated only when the owning pipeline opted in via its
// show_stage_names setting.
type OrderStatusView struct {
	OrderID      string             `json:"order_id"`
	ClientStatus model.ClientStatus `json:"client_status"`
	StageName    string             `json:"stage_name,omitempty"`
}

// ProfileView is the API projection of a provisioned provider profile.
type ProfileView struct {
	ProfileID   string `json:"profile_id"`
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
}

func stageToView(stage *model.Stage) StageView {
	return StageView{
		StageID:      stage.StageID,
		PipelineID:   stage.PipelineID,
		Name:         stage.Name,
		Position:     stage.Position,
		SystemStatus: stage.SystemStatus,
		ClientStatus: model.ToClientStatus(stage),
	}
}

func stageSliceToView(stages []model.Stage) []StageView {
	views := make([]StageView, 0, len(stages))
	for i := range stages {
		views = append(views, stageToView(&stages[i]))
	}
	return views
}

func pipelineToView(pipeline *model.Pipeline, stages []model.Stage) *PipelineView {
	if pipeline == nil {
		return nil
	}
	return &PipelineView{
		PipelineID:  pipeline.PipelineID,
		ProfileID:   pipeline.ProfileID,
		Name:        pipeline.Name,
		Description: pipeline.Description,
		Settings:    pipeline.Settings,
		IsDefault:   pipeline.IsDefault,
		Stages:      stageSliceToView(stages),
	}
}

func cardToView(card *model.Card, stage *model.Stage) CardView {
	return CardView{
		OrderID:      card.OrderID,
		PipelineID:   card.PipelineID,
		StageID:      card.StageID,
		Category:     card.Category,
		City:         card.City,
		MovedAt:      card.MovedAt,
		ClientStatus: model.ToClientStatus(stage),
	}
}

func profileToView(profile *model.Profile) *ProfileView {
	if profile == nil {
		return nil
	}
	return &ProfileView{
		ProfileID:   profile.ProfileID,
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
	}
}

// showStageNames reads the presentation setting controlling whether the
// client projection may include the stage display name. Settings is opaque
// to the engine apart from this one policy flag.
func showStageNames(settings string) bool {
	if settings == "" {
		return false
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(settings), &parsed); err != nil {
		return false
	}
	flag, ok := parsed["show_stage_names"].(bool)
	return ok && flag
}
