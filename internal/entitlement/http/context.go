// Package http provides the principal middleware shared by all endpoints that
// act on behalf of an authenticated user.
package http

import (
	"context"
)

// principalKey is a context key type for storing the authenticated principal.
type principalKey struct{}

// WithPrincipal stores the authenticated principal id in the context.
// Called by the principal middleware after header validation.
func WithPrincipal(ctx context.Context, principalID string) context.Context {
	return context.WithValue(ctx, principalKey{}, principalID)
}

// GetPrincipal retrieves the authenticated principal id from the context.
// Returns ("", false) when no principal was set.
func GetPrincipal(ctx context.Context) (string, bool) {
	principalID, ok := ctx.Value(principalKey{}).(string)
	return principalID, ok
}
