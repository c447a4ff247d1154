package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AfsalAzizi/food-delivery-platform/pkg/httputil"
	"github.com/AfsalAzizi/food-delivery-platform/pkg/logger"
)

type contextKeyType string

const userIDKey contextKeyType = "user_id"

// Claims is what the auth middleware needs from a verified token.
type Claims struct {
	UserID string
	Email  string
}

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator func(token string) (*Claims, error)

// Auth rejects requests without a valid bearer token and stores the caller's
// user id in the context. When a request-scoped logger is present it is
// re-enriched with user_id.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, "Unauthorized")
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				writeAuthError(w, "Unauthorized")
				return
			}

			claims, err := validate(strings.TrimSpace(token))
			if err != nil || claims == nil || claims.UserID == "" {
				writeAuthError(w, "Invalid Token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = logger.WithUserID(ctx, claims.UserID)
			if l, ok := logger.Lookup(ctx); ok {
				ctx = logger.NewContext(ctx, l.With(slog.String("user_id", claims.UserID)))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user id, or "" when the request
// did not pass through Auth.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// WithUserID returns a context carrying an authenticated user id. Handlers
// under test use it to skip token verification.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func writeAuthError(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: message},
	})
}
