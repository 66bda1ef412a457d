package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/nikolaslacerda/book-store-manager/internal/platform/httpx"
)

type contextKey struct{}

var principalKey contextKey

// ContextWithPrincipal returns a context carrying the resolved principal.
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext returns the principal stored by RequireAuth, or nil.
func PrincipalFromContext(ctx context.Context) *Principal {
	principal, _ := ctx.Value(principalKey).(*Principal)
	return principal
}

// RequireAuth extracts the bearer token, validates it and resolves the
// encoded username to a fresh principal before invoking the next handler.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			httpx.RespondError(w, fmt.Errorf("%w: missing bearer token", httpx.ErrUnauthorized))
			return
		}

		username, err := s.tokens.Validate(raw)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}

		principal, err := s.ResolvePrincipal(r.Context(), username)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}

		ctx := ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
