package middleware

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/funwhale/orderboard/pkg/common"
)

// Auth returns a middleware that extracts the gateway-verified caller
// identity from request headers and adds it to the context. This
// middleware does NOT enforce authentication, it only enriches the
// context when the headers are present.
func Auth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if principal, ok := principalFromHeaders(c); ok {
			ctx = common.ContextWithPrincipal(ctx, principal)
		}
		c.Next(ctx)
	}
}

// RequireAuth returns a middleware that enforces authentication.
// Requests without a valid X-User-Id header are rejected with 401.
func RequireAuth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		principal, ok := principalFromHeaders(c)
		if !ok {
			c.JSON(401, map[string]any{
				"code":  401,
				"error": "authentication required",
				"msg":   "missing or invalid X-User-Id header",
			})
			c.Abort()
			return
		}

		ctx = common.ContextWithPrincipal(ctx, principal)
		c.Next(ctx)
	}
}

func principalFromHeaders(c *app.RequestContext) (common.Principal, bool) {
	userHeader := c.GetHeader("X-User-Id")
	if len(userHeader) == 0 {
		return common.Principal{}, false
	}
	id, err := strconv.ParseInt(string(userHeader), 10, 64)
	if err != nil || id <= 0 {
		return common.Principal{}, false
	}

	role := string(c.GetHeader("X-User-Role"))
	if role != common.RoleAdmin {
		role = common.RoleUser
	}
	return common.Principal{UserID: id, Role: role}, true
}
