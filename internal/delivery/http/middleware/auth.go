package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "dayboard/internal/delivery/http/helpers"
	"dayboard/internal/domain"
)

type contextKey string

const userKeyKey contextKey = "userKey"

// SetUserKey returns a context with the stable user key set. Used by auth middleware.
func SetUserKey(ctx context.Context, userKey string) context.Context {
	return context.WithValue(ctx, userKeyKey, userKey)
}

// UserKeyFromContext returns the authenticated user key from the context, if present.
// The user key namespaces all of the caller's calendar state.
func UserKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(userKeyKey).(string)
	return key, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the user key in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			userKey, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("token rejected", "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetUserKey(r.Context(), userKey))
			next(w, r)
		}
	}
}
