package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/thecloudydeveloper/expense-tracker/internal/common"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// identityFromContext returns the claims the auth middleware injected.
func identityFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(identityKey).(*auth.Claims)
	return claims, ok
}

// authenticate is the request-level auth gateway: no token yields 401,
// an invalid or expired token yields 403, a valid one injects the subject's
// identity into the request context. Stateless across requests.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" {
			writeMessage(w, http.StatusUnauthorized, "Access denied, token missing")
			return
		}

		if !strings.HasPrefix(header, common.BearerSchemePrefix) {
			writeMessage(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, common.BearerSchemePrefix), s.jwtSecret)
		if err != nil {
			writeMessage(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
