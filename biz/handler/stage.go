package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/funwhale/orderboard/biz/service"
)

// CreateStageRequest inserts a custom stage. AfterStageID names the left
// neighbour; empty appends to the end of the customizable region.
type CreateStageRequest struct {
	Name         string `json:"name"`
	AfterStageID string `json:"after_stage_id"`
}

// CreateStage .
// @router /api/v1/pipelines/:id/stages [POST]
func (h *BoardHandler) CreateStage(ctx context.Context, c *app.RequestContext) {
	var req CreateStageRequest
	if err := c.BindAndValidate(&req); err != nil {
		WriteBadRequest(c, err)
		return
	}

	stage, err := h.svc.CreateStage(ctx, c.Param("id"), req.Name, req.AfterStageID)
	if err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondData(c, stage)
}

// UpdateStage renames and/or reorders a stage.
// @router /api/v1/stages/:id [PATCH]
func (h *BoardHandler) UpdateStage(ctx context.Context, c *app.RequestContext) {
	var patch service.StagePatch
	if err := c.BindAndValidate(&patch); err != nil {
		WriteBadRequest(c, err)
		return
	}

	stage, err := h.svc.UpdateStage(ctx, c.Param("id"), patch)
	if err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondData(c, stage)
}

// DeleteStage .
// @router /api/v1/stages/:id [DELETE]
func (h *BoardHandler) DeleteStage(ctx context.Context, c *app.RequestContext) {
	if err := h.svc.DeleteStage(ctx, c.Param("id")); err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondOK(c)
}
