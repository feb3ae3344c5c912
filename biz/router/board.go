package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/funwhale/orderboard/biz/handler"
	"github.com/funwhale/orderboard/biz/middleware"
)

// RegisterBoardRoutes configures HTTP routes for the pipeline engine.
// Read endpoints rely on the principal already enriched by Auth; mutating
// endpoints additionally pass through RequireAuth and the optional write
// lock.
func RegisterBoardRoutes(r *server.Hertz, h *handler.BoardHandler) {
	if h == nil {
		return
	}

	v1 := r.Group("/api/v1")

	reads := v1.Group("")
	reads.GET("/pipelines", h.ListPipelines)
	reads.GET("/pipelines/:id", h.GetPipeline)
	reads.GET("/pipelines/:id/cards", h.ListCards)
	reads.GET("/orders/:orderID/status", h.GetOrderStatus)

	writes := v1.Group("", middleware.RequireAuth())
	writes.Use(middleware.WriteLockMw()...)
	writes.POST("/profiles", h.ProvisionProfile)
	writes.POST("/pipelines", h.CreatePipeline)
	writes.PATCH("/pipelines/:id", h.UpdatePipeline)
	writes.POST("/pipelines/:id/default", h.SetDefaultPipeline)
	writes.DELETE("/pipelines/:id", h.DeletePipeline)
	writes.POST("/pipelines/:id/stages", h.CreateStage)
	writes.PATCH("/stages/:id", h.UpdateStage)
	writes.DELETE("/stages/:id", h.DeleteStage)
	writes.POST("/pipelines/:id/cards/:orderID", h.AttachOrder)
	writes.POST("/pipelines/:id/cards/:orderID/move", h.MoveCard)
	writes.DELETE("/pipelines/:id/cards/:orderID", h.DetachOrder)

	r.GET("/ping", handler.Ping)
}
