package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AfsalAzizi/food-delivery-platform/pkg/httputil"
	"github.com/AfsalAzizi/food-delivery-platform/pkg/validator"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/service"
)

// AuthHandler handles HTTP requests for auth endpoints.
type AuthHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// AuthResponse pairs the account with its access token.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req RegisterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err, requiredMessage(err, domain.MsgMissingFields))
		return
	}

	user, token, err := h.service.Register(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, AuthResponse{User: user, Token: token})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err, requiredMessage(err, service.MsgCredentialsRequired))
		return
	}

	user, token, err := h.service.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, AuthResponse{User: user, Token: token})
}

// requiredMessage returns msg when err reports a missing required field.
func requiredMessage(err error, msg string) string {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) && valErr.HasTag("required") {
		return msg
	}
	return ""
}
