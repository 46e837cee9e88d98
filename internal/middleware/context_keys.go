package middleware

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"
)

// ContextKey is a private type for request-scoped values.
type ContextKey string

const (
	UserIDCtxKey   = ContextKey("user_id")
	UserRoleCtxKey = ContextKey("user_role")
	ClaimsCtxKey   = ContextKey("claims")
)

// UserIDFrom returns the authenticated user id, or "" on public routes.
func UserIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(UserIDCtxKey).(string)
	return id
}

func ClaimsFrom(ctx context.Context) *usecase.Claims {
	claims, _ := ctx.Value(ClaimsCtxKey).(*usecase.Claims)
	return claims
}
