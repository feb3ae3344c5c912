package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
)

// AttachOrderRequest enters an order into a pipeline. Category and city
// are display metadata copied from the order reference.
type AttachOrderRequest struct {
	Category string `json:"category"`
	City     string `json:"city"`
}

// MoveCardRequest moves an order's card to another stage.
type MoveCardRequest struct {
	TargetStageID string `json:"target_stage_id"`
}

// AttachOrder .
// @router /api/v1/pipelines/:id/cards/:orderID [POST]
func (h *BoardHandler) AttachOrder(ctx context.Context, c *app.RequestContext) {
	var req AttachOrderRequest
	if err := c.BindAndValidate(&req); err != nil {
		WriteBadRequest(c, err)
		return
	}

	card, err := h.svc.AttachOrder(ctx, c.Param("id"), c.Param("orderID"), req.Category, req.City)
	if err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondData(c, card)
}

// MoveCard .
// @router /api/v1/pipelines/:id/cards/:orderID/move [POST]
func (h *BoardHandler) MoveCard(ctx context.Context, c *app.RequestContext) {
	var req MoveCardRequest
	if err := c.BindAndValidate(&req); err != nil {
		WriteBadRequest(c, err)
		return
	}

	card, err := h.svc.MoveCard(ctx, c.Param("id"), c.Param("orderID"), req.TargetStageID)
	if err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondData(c, card)
}

// DetachOrder .
// @router /api/v1/pipelines/:id/cards/:orderID [DELETE]
func (h *BoardHandler) DetachOrder(ctx context.Context, c *app.RequestContext) {
	if err := h.svc.DetachOrder(ctx, c.Param("id"), c.Param("orderID")); err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondOK(c)
}

// ListCards .
// @router /api/v1/pipelines/:id/cards [GET]
func (h *BoardHandler) ListCards(ctx context.Context, c *app.RequestContext) {
	cards, err := h.svc.ListCards(ctx, c.Param("id"))
	if err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondData(c, cards)
}

// GetOrderStatus .
// @router /api/v1/orders/:orderID/status [GET]
func (h *BoardHandler) GetOrderStatus(ctx context.Context, c *app.RequestContext) {
	status, err := h.svc.OrderStatus(ctx, c.Param("orderID"))
	if err != nil {
		RespondServiceError(ctx, c, err)
		return
	}
	RespondData(c, status)
}
