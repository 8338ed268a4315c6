package claimsctx

import (
	"context"

	"github.com/avoronkov/authd/internal/service/auth/tokenmanager"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// Create a new context with the decoded token claims
func New(ctx context.Context, claims tokenmanager.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Extract the claims from the context
func FromContext(ctx context.Context) (tokenmanager.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(tokenmanager.Claims)
	return claims, ok
}
