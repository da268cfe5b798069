package middleware

import (
	"context"
	"net/http"

	"github.com/warelane/stockscan/internal/domain"
	"github.com/warelane/stockscan/internal/http/response"
	"github.com/warelane/stockscan/internal/platform/session"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// ResolveIdentity resolves the effective identity (session preferred, signed
// credential fallback) and stores it in the request context when present.
// Anonymous requests pass through.
func ResolveIdentity(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity := mgr.Current(w, r); identity != nil {
				ctx := context.WithValue(r.Context(), ctxIdentity, identity)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Identity(r) == nil {
			response.Fail(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Identity returns the authenticated identity from the request context, nil
// when anonymous.
func Identity(r *http.Request) *domain.Identity {
	if v := r.Context().Value(ctxIdentity); v != nil {
		if id, ok := v.(*domain.Identity); ok {
			return id
		}
	}
	return nil
}
