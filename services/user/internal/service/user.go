package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/AfsalAzizi/food-delivery-platform/pkg/errors"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/repository"
)

// bcryptCost is the cost factor for password hashing.
const bcryptCost = 10

// Messages returned to clients on auth failures.
const (
	MsgBadCredentials      = "Incorrect email or password"
	MsgCredentialsRequired = "Email and password are required"
	MsgAccountDisabled     = "Account is deactivated"
)

// UserService implements registration, login and profile lookup.
type UserService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	events UserEvents
	logger *slog.Logger
	now    func() time.Time
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, tokens TokenIssuer, events UserEvents, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string
	Password string
}

// Register creates an account and returns it with a signed access token.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	email := domain.NormalizeEmail(input.Email)
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if email == "" || input.Password == "" || firstName == "" || lastName == "" {
		return nil, "", apperrors.InvalidInput(domain.MsgMissingFields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, "", apperrors.InvalidInput("Password is too long")
		}
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        strings.TrimSpace(input.Phone),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.events.UserRegistered(ctx, user)

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))
	return user, token, nil
}

// Login verifies credentials. Unknown emails and wrong passwords produce the
// same error.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*domain.User, string, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, "", apperrors.InvalidInput(MsgCredentialsRequired)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized(MsgBadCredentials)
		}
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", apperrors.Unauthorized(MsgBadCredentials)
	}
	if !user.IsActive {
		return nil, "", apperrors.Unauthorized(MsgAccountDisabled)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}

// GetProfile returns the caller's account.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return user, nil
}
