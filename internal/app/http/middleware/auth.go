package middleware

import (
	"net/http"
	"strings"

	"quotations/go_backend/internal/app/http/respond"
	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/user"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(raw string) (user.Principal, error)
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth rejects requests without a valid bearer token with 401.
func Auth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearer(r)
			if raw == "" {
				respond.Error(w, r, errx.Unauthorized(""))
				return
			}
			p, err := tokens.Parse(raw)
			if err != nil {
				respond.Error(w, r, errx.Unauthorized(""))
				return
			}
			next.ServeHTTP(w, r.WithContext(user.WithPrincipal(r.Context(), p)))
		})
	}
}

// OptionalAuth attaches the principal when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := bearer(r); raw != "" {
				if p, err := tokens.Parse(raw); err == nil {
					r = r.WithContext(user.WithPrincipal(r.Context(), p))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := user.FromContext(r.Context())
			if !ok {
				respond.Error(w, r, errx.Unauthorized(""))
				return
			}
			if p.Role != role {
				respond.Error(w, r, errx.Forbidden())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
