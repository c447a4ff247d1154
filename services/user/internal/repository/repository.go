package repository

import (
	"context"

	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create inserts a user. A taken email yields an AlreadyExists error.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrNotFound when no user has the id.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail looks up a user by normalized email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AddressRepository defines persistence for addresses. Every method that
// writes serializes on the owning user, so the single-default invariant holds
// under concurrent requests. Lookups that miss, including addresses owned by
// someone else, report NotFound.
type AddressRepository interface {
	// Create inserts address. It becomes the default iff the user had no
	// addresses; address.IsDefault is set accordingly.
	Create(ctx context.Context, address *domain.Address) (domain.CreateResult, error)

	// GetForUser returns the address only if userID owns it.
	GetForUser(ctx context.Context, userID, id string) (*domain.Address, error)

	// ListByUserID returns the user's addresses oldest first.
	ListByUserID(ctx context.Context, userID string) ([]domain.Address, error)

	// CountByUserID returns how many addresses the user owns.
	CountByUserID(ctx context.Context, userID string) (int, error)

	// Update applies patch. Promoting to default demotes the previous default
	// in the same transaction. Demoting the current default is rejected.
	Update(ctx context.Context, userID, id string, patch domain.AddressPatch) (domain.UpdateResult, error)

	// Delete removes the address and, if it was the default, promotes the
	// oldest remaining one.
	Delete(ctx context.Context, userID, id string) (domain.DeleteResult, error)
}
