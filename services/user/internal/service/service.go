package service

import (
	"context"

	apperrors "github.com/AfsalAzizi/food-delivery-platform/pkg/errors"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
)

// AddressEvents receives notifications after an address change commits.
// Implementations must not block and must not fail the caller.
type AddressEvents interface {
	AddressAdded(ctx context.Context, a *domain.Address, isFirst bool)
	AddressUpdated(ctx context.Context, res *domain.UpdateResult)
	AddressDeleted(ctx context.Context, userID, addressID string, res *domain.DeleteResult)
}

// UserEvents receives account notifications.
type UserEvents interface {
	UserRegistered(ctx context.Context, u *domain.User)
}

// TokenIssuer signs access tokens. *auth.JWTManager satisfies it.
type TokenIssuer interface {
	GenerateAccessToken(userID, email string) (string, error)
}

func requireCaller(userID string) error {
	if userID == "" {
		return apperrors.Unauthorized("Unauthorized")
	}
	return nil
}
