package handler

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/funwhale/orderboard/biz/service"
	"github.com/funwhale/orderboard/pkg/common"
)

// BoardHandler exposes the pipeline engine over HTTP.
type BoardHandler struct {
	svc *service.Service
}

func NewBoardHandler(svc *service.Service) *BoardHandler {
	return &BoardHandler{svc: svc}
}

// Ping is the health endpoint.
func Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK, Msg: "pong"})
}

func RespondData(c *app.RequestContext, data interface{}) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Msg:  http.StatusText(consts.StatusOK),
		Data: data,
	})
}

func RespondOK(c *app.RequestContext) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Msg:  http.StatusText(consts.StatusOK),
	})
}

func WriteBadRequest(c *app.RequestContext, err error) {
	c.JSON(consts.StatusBadRequest, common.CommonResponse{
		Code:  consts.StatusBadRequest,
		Msg:   err.Error(),
		Error: err.Error(),
	})
}

// RespondServiceError translates the service error taxonomy into transport
// status codes. Unknown errors are logged and reported generically so no
// storage detail leaks to the caller.
func RespondServiceError(ctx context.Context, c *app.RequestContext, err error) {
	status := consts.StatusInternalServerError
	msg := err.Error()

	switch service.KindOf(err) {
	case service.KindUnauthorized:
		status = consts.StatusUnauthorized
	case service.KindForbidden:
		status = consts.StatusForbidden
	case service.KindNotFound:
		status = consts.StatusNotFound
	case service.KindValidation:
		status = consts.StatusBadRequest
	case service.KindConflict:
		status = consts.StatusConflict
	default:
		hlog.CtxErrorf(ctx, "unclassified service error: %v", err)
		msg = "internal error"
	}

	c.JSON(status, common.CommonResponse{
		Code:  status,
		Msg:   msg,
		Error: msg,
	})
}
