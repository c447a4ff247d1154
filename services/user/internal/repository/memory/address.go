package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/AfsalAzizi/food-delivery-platform/pkg/errors"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
)

// AddressStore implements repository.AddressRepository on an in-process map.
// A single mutex plays the role of the per-user transaction lock, so every
// write is atomic with respect to every read.
type AddressStore struct {
	mu        sync.RWMutex
	addresses map[string]*domain.Address
	now       func() time.Time
}

// NewAddressStore creates an empty store.
func NewAddressStore() *AddressStore {
	return &AddressStore{
		addresses: make(map[string]*domain.Address),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a copy of a. It becomes the default iff it is the user's first.
func (s *AddressStore) Create(_ context.Context, a *domain.Address) (domain.CreateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.addresses[a.ID]; exists {
		return domain.CreateResult{}, apperrors.AlreadyExists("address", "id", a.ID)
	}

	a.IsDefault = len(s.ownedLocked(a.UserID)) == 0
	stored := *a
	s.addresses[a.ID] = &stored

	return domain.CreateResult{Address: a, IsFirstAddress: a.IsDefault}, nil
}

// GetForUser returns a copy of the address when userID owns it.
func (s *AddressStore) GetForUser(_ context.Context, userID, id string) (*domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.addresses[id]
	if !ok || a.UserID != userID {
		return nil, apperrors.NotFound("address", id)
	}
	cp := *a
	return &cp, nil
}

// ListByUserID returns copies of the user's addresses oldest first.
func (s *AddressStore) ListByUserID(_ context.Context, userID string) ([]domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := s.ownedLocked(userID)
	out := make([]domain.Address, 0, len(owned))
	for _, a := range owned {
		out = append(out, *a)
	}
	return out, nil
}

// CountByUserID returns how many addresses the user owns.
func (s *AddressStore) CountByUserID(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.ownedLocked(userID)), nil
}

// Update applies patch, moving the default when the patch promotes.
func (s *AddressStore) Update(_ context.Context, userID, id string, patch domain.AddressPatch) (domain.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.addresses[id]
	if !ok || a.UserID != userID {
		return domain.UpdateResult{}, apperrors.NotFound("address", id)
	}
	if patch.DemotesDefault() && a.IsDefault {
		return domain.UpdateResult{}, apperrors.InvalidInput(domain.MsgDemoteDefault)
	}

	var res domain.UpdateResult
	now := s.now()
	if patch.PromotesToDefault() && !a.IsDefault {
		res.DefaultChanged = true
		for _, other := range s.ownedLocked(userID) {
			if other.IsDefault {
				other.IsDefault = false
				other.UpdatedAt = now
				res.DemotedID = other.ID
			}
		}
	}

	patch.Apply(a)
	a.UpdatedAt = now
	cp := *a
	res.Address = &cp
	return res, nil
}

// Delete removes the address and promotes the oldest remaining one if the
// deleted address was the default.
func (s *AddressStore) Delete(_ context.Context, userID, id string) (domain.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.addresses[id]
	if !ok || a.UserID != userID {
		return domain.DeleteResult{}, apperrors.NotFound("address", id)
	}
	delete(s.addresses, id)

	res := domain.DeleteResult{WasDefault: a.IsDefault}
	if !a.IsDefault {
		return res, nil
	}
	if remaining := s.ownedLocked(userID); len(remaining) > 0 {
		oldest := remaining[0]
		oldest.IsDefault = true
		oldest.UpdatedAt = s.now()
		res.PromotedID = oldest.ID
	}
	return res, nil
}

// ownedLocked returns the user's addresses ordered by created_at then id.
// Callers must hold mu.
func (s *AddressStore) ownedLocked(userID string) []*domain.Address {
	var owned []*domain.Address
	for _, a := range s.addresses {
		if a.UserID == userID {
			owned = append(owned, a)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.Before(owned[j].CreatedAt)
		}
		return owned[i].ID < owned[j].ID
	})
	return owned
}
