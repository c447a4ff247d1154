package memory

import (
	"context"
	"sync"

	apperrors "github.com/AfsalAzizi/food-delivery-platform/pkg/errors"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
)

// UserStore implements repository.UserRepository on an in-process map.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

// NewUserStore creates an empty store.
func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

// Create stores a copy of u. Emails are unique.
func (s *UserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[u.Email]; taken {
		return apperrors.AlreadyExists("user", "email", u.Email)
	}
	cp := *u
	s.byID[u.ID] = &cp
	s.byEmail[u.Email] = u.ID
	return nil
}

// GetByID returns a copy of the user.
func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// GetByEmail returns a copy of the user with the given email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[email]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s.GetByID(ctx, id)
}
