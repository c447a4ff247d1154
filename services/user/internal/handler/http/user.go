package http

import (
	"log/slog"
	"net/http"

	"github.com/AfsalAzizi/food-delivery-platform/pkg/httputil"
	"github.com/AfsalAzizi/food-delivery-platform/pkg/middleware"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/service"
)

// UserHandler serves the caller's profile.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

// GetProfile handles GET /user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetProfile(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, user)
}
