// Package middleware provides the composable request wrappers for the API:
// request/response observability capture, bearer authentication and per-client
// admission control. Handlers declare their capabilities by composing these
// explicitly in the route table instead of relying on annotation ordering.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ThomasBury/AceBet/internal/user"
)

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a context carrying the authenticated principal
func WithPrincipal(ctx context.Context, p *user.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom extracts the authenticated principal from the context
func PrincipalFrom(ctx context.Context) (*user.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*user.Principal)
	return p, ok
}

// writeDetail writes an error body in the {"detail": ...} shape used across the API
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
