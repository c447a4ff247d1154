package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/AfsalAzizi/food-delivery-platform/pkg/errors"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/repository/memory"
)

func newMemoryUserService(t *testing.T) (*UserService, *recordingEvents) {
	t.Helper()
	events := &recordingEvents{}
	return NewUserService(memory.NewUserStore(), stubTokens{}, events, discardLogger()), events
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Email:     "Asha@Example.com ",
		Password:  "test123",
		FirstName: "Asha",
		LastName:  "Rao",
		Phone:     "1234567890",
	}
}

func TestUserService_Register(t *testing.T) {
	svc, events := newMemoryUserService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.Equal(t, "token-for-"+user.ID, token)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("test123")))

	recorded := events.All()
	require.Len(t, recorded, 1)
	assert.Equal(t, "registered", recorded[0].kind)
	assert.Equal(t, user.ID, recorded[0].user.ID)
}

func TestUserService_RegisterMissingFields(t *testing.T) {
	svc, events := newMemoryUserService(t)

	for _, mutate := range []func(*RegisterInput){
		func(in *RegisterInput) { in.Email = " " },
		func(in *RegisterInput) { in.Password = "" },
		func(in *RegisterInput) { in.FirstName = "" },
		func(in *RegisterInput) { in.LastName = "" },
	} {
		in := validRegistration()
		mutate(&in)
		_, _, err := svc.Register(context.Background(), in)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domain.MsgMissingFields, appErr.Message)
	}
	assert.Empty(t, events.All())
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc, events := newMemoryUserService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	dup := validRegistration()
	dup.Email = "asha@example.com"
	_, _, err = svc.Register(ctx, dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Equal(t, 409, apperrors.HTTPStatus(err))
	assert.Len(t, events.All(), 1)
}

func TestUserService_RegisterPasswordTooLong(t *testing.T) {
	svc, _ := newMemoryUserService(t)

	in := validRegistration()
	in.Password = strings.Repeat("x", 80)
	_, _, err := svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUserService_RegisterTokenFailure(t *testing.T) {
	svc := NewUserService(memory.NewUserStore(), stubTokens{err: errors.New("no key")}, &recordingEvents{}, discardLogger())

	_, _, err := svc.Register(context.Background(), validRegistration())
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
}

func TestUserService_Login(t *testing.T) {
	svc, _ := newMemoryUserService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, LoginInput{Email: "ASHA@example.com", Password: "test123"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, "token-for-"+user.ID, token)
}

func TestUserService_LoginFailures(t *testing.T) {
	svc, _ := newMemoryUserService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   LoginInput
		status  int
		message string
	}{
		{"missing password", LoginInput{Email: "asha@example.com"}, 400, MsgCredentialsRequired},
		{"missing email", LoginInput{Password: "test123"}, 400, MsgCredentialsRequired},
		{"wrong password", LoginInput{Email: "asha@example.com", Password: "nope"}, 401, MsgBadCredentials},
		{"unknown email", LoginInput{Email: "nobody@example.com", Password: "test123"}, 401, MsgBadCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.input)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.status, appErr.Status)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestUserService_LoginDeactivated(t *testing.T) {
	repo := &mockUserRepository{}
	svc := NewUserService(repo, stubTokens{}, &recordingEvents{}, discardLogger())
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("test123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("GetByEmail", ctx, "asha@example.com").
		Return(&domain.User{ID: "user-1", Email: "asha@example.com", PasswordHash: string(hash), IsActive: false}, nil)

	_, _, err = svc.Login(ctx, LoginInput{Email: "asha@example.com", Password: "test123"})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, MsgAccountDisabled, appErr.Message)
	repo.AssertExpectations(t)
}

func TestUserService_LoginRepositoryError(t *testing.T) {
	repo := &mockUserRepository{}
	svc := NewUserService(repo, stubTokens{}, &recordingEvents{}, discardLogger())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, mock.Anything).Return(nil, errors.New("pool closed"))

	_, _, err := svc.Login(ctx, LoginInput{Email: "asha@example.com", Password: "test123"})
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
}

func TestUserService_GetProfile(t *testing.T) {
	svc, _ := newMemoryUserService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	got, err := svc.GetProfile(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Email, got.Email)

	_, err = svc.GetProfile(ctx, "gone")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 404, apperrors.HTTPStatus(err))

	_, err = svc.GetProfile(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
