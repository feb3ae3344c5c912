package common

import (
	"context"
)

// CommonResponse is a lightweight response wrapper used by HTTP handlers.
type CommonResponse struct {
	Code  int         `json:"code"`
	Msg   string      `json:"msg,omitempty"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// Role values recognised by the authorization layer.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Principal is the verified caller identity attached to a request by the
// auth middleware. The engine never authenticates by itself; it trusts the
// gateway-verified headers.
type Principal struct {
	UserID int64
	Role   string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type contextKey string

const principalKey contextKey = "principal"

// ContextWithPrincipal stores the caller principal into context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal retrieves the caller principal from context.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	v := ctx.Value(principalKey)
	if v == nil {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	if !ok || p.UserID <= 0 {
		return Principal{}, false
	}
	return p, true
}
