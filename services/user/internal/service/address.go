package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/repository"
)

// AddressService owns a user's delivery addresses and keeps exactly one of
// them marked as default whenever the user has any.
type AddressService struct {
	repo   repository.AddressRepository
	events AddressEvents
	logger *slog.Logger
	now    func() time.Time
}

// NewAddressService creates a new address service.
func NewAddressService(repo repository.AddressRepository, events AddressEvents, logger *slog.Logger) *AddressService {
	return &AddressService{
		repo:   repo,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// AddAddress validates and stores a new address. The user's first address
// becomes the default.
func (s *AddressService) AddAddress(ctx context.Context, userID string, fields domain.AddressFields) (*domain.Address, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	address := domain.NewAddress(userID, fields)
	address.ID = uuid.NewString()
	address.CreatedAt = now
	address.UpdatedAt = now

	res, err := s.repo.Create(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	s.events.AddressAdded(ctx, res.Address, res.IsFirstAddress)

	s.logger.InfoContext(ctx, "address added",
		slog.String("address_id", res.Address.ID),
		slog.Bool("is_default", res.Address.IsDefault),
	)
	return res.Address, nil
}

// ListAddresses returns the user's addresses oldest first.
func (s *AddressService) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	addresses, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

// GetAddress returns one address owned by userID.
func (s *AddressService) GetAddress(ctx context.Context, userID, addressID string) (*domain.Address, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	address, err := s.repo.GetForUser(ctx, userID, addressID)
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	return address, nil
}

// UpdateAddress applies a partial update. Setting is_default moves the
// default to this address and demotes the previous one atomically.
func (s *AddressService) UpdateAddress(ctx context.Context, userID, addressID string, patch domain.AddressPatch) (*domain.Address, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	patch.Normalize()

	res, err := s.repo.Update(ctx, userID, addressID, patch)
	if err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}

	s.events.AddressUpdated(ctx, &res)

	attrs := []any{slog.String("address_id", addressID)}
	if res.DefaultChanged {
		attrs = append(attrs, slog.String("previous_default_id", res.DemotedID))
	}
	s.logger.InfoContext(ctx, "address updated", attrs...)
	return res.Address, nil
}

// DeleteAddress removes an address. When it was the default, the oldest
// remaining address is promoted in the same transaction.
func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID string) error {
	if err := requireCaller(userID); err != nil {
		return err
	}

	res, err := s.repo.Delete(ctx, userID, addressID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	s.events.AddressDeleted(ctx, userID, addressID, &res)

	s.logger.InfoContext(ctx, "address deleted",
		slog.String("address_id", addressID),
		slog.Bool("was_default", res.WasDefault),
		slog.String("promoted_id", res.PromotedID),
	)
	return nil
}

// CountAddresses returns how many addresses the caller has.
func (s *AddressService) CountAddresses(ctx context.Context, userID string) (int, error) {
	if err := requireCaller(userID); err != nil {
		return 0, err
	}

	n, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count addresses: %w", err)
	}
	return n, nil
}
