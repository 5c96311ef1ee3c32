package chi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/glyphdex/glyphdex/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "identity"

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// TokenResolver maps a bearer token to an identity.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (domain.Identity, error)
}

// IdentityFromContext returns the authenticated identity, nil for anonymous
// requests.
func IdentityFromContext(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(identityContextKey).(*domain.Identity)
	return id
}

// BearerAuthMiddleware resolves Bearer tokens into identities and stores
// them on the request context. With allowAnonymous, requests without an
// Authorization header pass through unauthenticated; a presented token is
// still validated even then, so a bad credential never silently downgrades
// to anonymous access.
func BearerAuthMiddleware(
	resolver TokenResolver, allowAnonymous bool, logger *zap.Logger,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				if allowAnonymous {
					next.ServeHTTP(w, r)
					return
				}
				writeError(w, http.StatusUnauthorized, CodeAuthRequired, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, CodeAuthInvalid,
					"authorization header must use Bearer scheme")
				return
			}

			identity, err := resolver.Resolve(r.Context(), auth[len(bearerPrefix):])
			if err != nil {
				if errors.Is(err, domain.ErrAuthInvalid) {
					writeError(w, http.StatusUnauthorized, CodeAuthInvalid, "invalid or revoked token")
					return
				}
				logger.Error("token resolution failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, &identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
