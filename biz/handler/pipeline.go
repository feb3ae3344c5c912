package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/funwhale/orderboard/biz/service"
)

// ProvisionProfileRequest registers a provider profile with its default
// pipeline.
type ProvisionProfileRequest struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// CreatePipelineRequest creates an additional pipeline for a profile.
type CreatePipelineRequest struct {
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
}

// ProvisionProfile .
// @router /api/v1/profiles [POST]
func (h *BoardHandler) ProvisionProfile(ctx context.Context, c *app.RequestContext) {
	var req ProvisionProfileRequest
	if err := c.BindAndValidate(&req); err != nil {
		WriteBadRequest(c, err)
		return
	}

	profile, err := h.svc.ProvisionProfile(ctx, req.UserID, req.DisplayName)
	if err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondData(c, profile)
}

// ListPipelines .
// @router /api/v1/pipelines [GET]
func (h *BoardHandler) ListPipelines(ctx context.Context, c *app.RequestContext) {
	profileID := c.Query("profile_id")
	if profileID == "" {
		WriteBadRequest(c, errors.New("profile_id query parameter is required"))
		return
	}

	pipelines, err := h.svc.ListPipelines(ctx, profileID)
	if err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondData(c, pipelines)
}

// CreatePipeline .
// @router /api/v1/pipelines [POST]
func (h *BoardHandler) CreatePipeline(ctx context.Context, c *app.RequestContext) {
	var req CreatePipelineRequest
	if err := c.BindAndValidate(&req); err != nil {
		WriteBadRequest(c, err)
		return
	}

	pipeline, err := h.svc.CreatePipeline(ctx, req.ProfileID, req.Name)
	if err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondData(c, pipeline)
}

// GetPipeline .
// @router /api/v1/pipelines/:id [GET]
func (h *BoardHandler) GetPipeline(ctx context.Context, c *app.RequestContext) {
	pipeline, err := h.svc.GetPipeline(ctx, c.Param("id"))
	if err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondData(c, pipeline)
}

// UpdatePipeline .
// @router /api/v1/pipelines/:id [PATCH]
func (h *BoardHandler) UpdatePipeline(ctx context.Context, c *app.RequestContext) {
	var patch service.PipelinePatch
	if err := c.BindAndValidate(&patch); err != nil {
		WriteBadRequest(c, err)
		return
	}

	pipeline, err := h.svc.UpdatePipeline(ctx, c.Param("id"), patch)
	if err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondData(c, pipeline)
}

// SetDefaultPipeline .
// @router /api/v1/pipelines/:id/default [POST]
func (h *BoardHandler) SetDefaultPipeline(ctx context.Context, c *app.RequestContext) {
	if err := h.svc.SetDefaultPipeline(ctx, c.Param("id")); err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondOK(c)
}

// DeletePipeline .
// @router /api/v1/pipelines/:id [DELETE]
func (h *BoardHandler) DeletePipeline(ctx context.Context, c *app.RequestContext) {
	if err := h.svc.DeletePipeline(ctx, c.Param("id")); err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondOK(c)
}
