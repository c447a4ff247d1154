package middleware

import (
	"log/slog"
	"net/http"

	"github.com/AfsalAzizi/food-delivery-platform/pkg/logger"
)

// RequestLogger stores a logger enriched with correlation_id and the trace
// ids in the request context. Mount it after RequestLogging and Tracing.
// Auth adds user_id to it later for protected routes.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if userID := UserIDFromContext(ctx); userID != "" {
				ctx = logger.WithUserID(ctx, userID)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
