package event

import (
	"context"
	"log/slog"

	pkgkafka "github.com/AfsalAzizi/food-delivery-platform/pkg/kafka"
	"github.com/AfsalAzizi/food-delivery-platform/pkg/logger"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
)

// Event types emitted by the user service.
const (
	TypeAddressAdded   = "address.added"
	TypeAddressUpdated = "address.updated"
	TypeAddressDeleted = "address.deleted"
	TypeUserRegistered = "user.registered"
)

const topicPrefix = "food_delivery."

// Aggregate types.
const (
	AggregateTypeAddress = "address"
	AggregateTypeUser    = "user"
)

// SourceUserService identifies events originating from this service.
const SourceUserService = "user-service"

// Topic returns the Kafka topic an event type is published to.
func Topic(eventType string) string {
	return topicPrefix + eventType
}

// AddressAddedData is the payload for address.added.
type AddressAddedData struct {
	UserID         string `json:"userId"`
	AddressID      string `json:"addressId"`
	Label          string `json:"label"`
	IsDefault      bool   `json:"isDefault"`
	IsFirstAddress bool   `json:"isFirstAddress"`
}

// AddressUpdatedData is the payload for address.updated.
type AddressUpdatedData struct {
	UserID            string `json:"userId"`
	AddressID         string `json:"addressId"`
	Label             string `json:"label"`
	IsDefault         bool   `json:"isDefault"`
	DefaultChanged    bool   `json:"defaultChanged"`
	PreviousDefaultID string `json:"previousDefaultId,omitempty"`
}

// AddressDeletedData is the payload for address.deleted.
type AddressDeletedData struct {
	UserID            string `json:"userId"`
	AddressID         string `json:"addressId"`
	WasDefault        bool   `json:"wasDefault"`
	PromotedAddressID string `json:"promotedAddressId,omitempty"`
}

// UserRegisteredData is the payload for user.registered.
type UserRegisteredData struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Queue accepts envelopes for asynchronous delivery. It never blocks.
type Queue interface {
	Enqueue(ctx context.Context, topic string, event *pkgkafka.Event) bool
}

// Producer builds user-service envelopes and hands them to a Queue. Its
// methods return nothing: delivery is best effort and never fails a request.
type Producer struct {
	queue  Queue
	logger *slog.Logger
}

// NewProducer creates a producer feeding queue.
func NewProducer(queue Queue, logger *slog.Logger) *Producer {
	return &Producer{queue: queue, logger: logger}
}

// AddressAdded emits address.added.
func (p *Producer) AddressAdded(ctx context.Context, a *domain.Address, isFirst bool) {
	p.emit(ctx, TypeAddressAdded, a.ID, AggregateTypeAddress, AddressAddedData{
		UserID:         a.UserID,
		AddressID:      a.ID,
		Label:          a.Label,
		IsDefault:      a.IsDefault,
		IsFirstAddress: isFirst,
	})
}

// AddressUpdated emits address.updated.
func (p *Producer) AddressUpdated(ctx context.Context, res *domain.UpdateResult) {
	a := res.Address
	p.emit(ctx, TypeAddressUpdated, a.ID, AggregateTypeAddress, AddressUpdatedData{
		UserID:            a.UserID,
		AddressID:         a.ID,
		Label:             a.Label,
		IsDefault:         a.IsDefault,
		DefaultChanged:    res.DefaultChanged,
		PreviousDefaultID: res.DemotedID,
	})
}

// AddressDeleted emits address.deleted.
func (p *Producer) AddressDeleted(ctx context.Context, userID, addressID string, res *domain.DeleteResult) {
	p.emit(ctx, TypeAddressDeleted, addressID, AggregateTypeAddress, AddressDeletedData{
		UserID:            userID,
		AddressID:         addressID,
		WasDefault:        res.WasDefault,
		PromotedAddressID: res.PromotedID,
	})
}

// UserRegistered emits user.registered.
func (p *Producer) UserRegistered(ctx context.Context, u *domain.User) {
	p.emit(ctx, TypeUserRegistered, u.ID, AggregateTypeUser, UserRegisteredData{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
}

func (p *Producer) emit(ctx context.Context, eventType, aggregateID, aggregateType string, data any) {
	ev, err := pkgkafka.NewEvent(eventType, aggregateID, aggregateType, SourceUserService, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("aggregate_id", aggregateID),
			slog.String("error", err.Error()),
		)
		return
	}
	ev.CorrelationID = logger.CorrelationIDFromContext(ctx)

	p.queue.Enqueue(ctx, Topic(eventType), ev)
}
