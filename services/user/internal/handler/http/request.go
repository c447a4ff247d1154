package http

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
)

var errInvalidCoordinates = errors.New("invalid coordinates")

// Coordinate accepts a JSON number or a numeric string. null and an absent
// key both mean "not provided". Anything else is remembered as invalid so
// the handler can report it with the coordinate message.
type Coordinate struct {
	Value   *float64
	invalid bool
}

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		c.Value = nil
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		c.invalid = true
		return nil
	}
	c.Value = &v
	return nil
}

// CreateAddressRequest is the JSON request body for POST /user/address.
type CreateAddressRequest struct {
	Label         string     `json:"label" validate:"required,max=50"`
	StreetAddress string     `json:"street_address" validate:"required,max=500"`
	City          string     `json:"city" validate:"required,max=100"`
	State         string     `json:"state" validate:"required,max=100"`
	PostalCode    string     `json:"postal_code" validate:"required,max=20"`
	Country       string     `json:"country" validate:"required,max=100"`
	Latitude      Coordinate `json:"latitude"`
	Longitude     Coordinate `json:"longitude"`
}

func (r CreateAddressRequest) coordinatesInvalid() bool {
	return r.Latitude.invalid || r.Longitude.invalid
}

func (r CreateAddressRequest) fields() domain.AddressFields {
	return domain.AddressFields{
		Label:         r.Label,
		StreetAddress: r.StreetAddress,
		City:          r.City,
		State:         r.State,
		PostalCode:    r.PostalCode,
		Country:       r.Country,
		Latitude:      r.Latitude.Value,
		Longitude:     r.Longitude.Value,
	}
}

// UpdateAddressRequest is the JSON request body for PUT /user/addresses/{id}.
// Omitted and null fields keep their stored values.
type UpdateAddressRequest struct {
	Label         *string    `json:"label" validate:"omitempty,max=50"`
	StreetAddress *string    `json:"street_address" validate:"omitempty,max=500"`
	City          *string    `json:"city" validate:"omitempty,max=100"`
	State         *string    `json:"state" validate:"omitempty,max=100"`
	PostalCode    *string    `json:"postal_code" validate:"omitempty,max=20"`
	Country       *string    `json:"country" validate:"omitempty,max=100"`
	Latitude      Coordinate `json:"latitude"`
	Longitude     Coordinate `json:"longitude"`
	IsDefault     *bool      `json:"is_default"`
}

func (r UpdateAddressRequest) coordinatesInvalid() bool {
	return r.Latitude.invalid || r.Longitude.invalid
}

func (r UpdateAddressRequest) patch() domain.AddressPatch {
	return domain.AddressPatch{
		Label:         r.Label,
		StreetAddress: r.StreetAddress,
		City:          r.City,
		State:         r.State,
		PostalCode:    r.PostalCode,
		Country:       r.Country,
		Latitude:      r.Latitude.Value,
		Longitude:     r.Longitude.Value,
		IsDefault:     r.IsDefault,
	}
}

// RegisterRequest is the JSON request body for user registration.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,max=72"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
}

// LoginRequest is the JSON request body for user login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
