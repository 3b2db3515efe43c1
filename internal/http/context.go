package http

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const requestContextKey contextKey = "request_context"

// RequestContext carries per-request metadata extracted before routing.
type RequestContext struct {
	AuthToken string
}

// withRequestContext extracts the bearer token, when present, and stores it
// for handlers. Authentication itself is enforced upstream; the token is
// carried for logging and future per-user scoping.
func withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := RequestContext{}
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			rc.AuthToken = strings.TrimPrefix(auth, "Bearer ")
		}
		ctx := context.WithValue(r.Context(), requestContextKey, rc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the request context, zero valued when absent.
func FromContext(ctx context.Context) RequestContext {
	if rc, ok := ctx.Value(requestContextKey).(RequestContext); ok {
		return rc
	}
	return RequestContext{}
}
