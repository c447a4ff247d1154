package domain

import (
	"math"
	"strings"
	"time"

	apperrors "github.com/AfsalAzizi/food-delivery-platform/pkg/errors"
)

// Validation messages returned to API clients.
const (
	MsgMissingFields      = "Missing required fields"
	MsgInvalidCoordinates = "Invalid coordinates"
	MsgDemoteDefault      = "Cannot unset the default address; set another address as default instead"
)

// Address is one delivery location owned by exactly one user.
type Address struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Label         string    `json:"label"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	PostalCode    string    `json:"postal_code"`
	Country       string    `json:"country"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AddressFields is the input for creating an address.
type AddressFields struct {
	Label         string
	StreetAddress string
	City          string
	State         string
	PostalCode    string
	Country       string
	Latitude      *float64
	Longitude     *float64
}

// Validate checks required fields first, then coordinate ranges.
func (f AddressFields) Validate() error {
	for _, v := range []string{f.Label, f.StreetAddress, f.City, f.State, f.PostalCode, f.Country} {
		if strings.TrimSpace(v) == "" {
			return apperrors.InvalidInput(MsgMissingFields)
		}
	}
	return validateCoordinates(f.Latitude, f.Longitude)
}

// NewAddress builds an unsaved address for userID. The default flag is
// decided by the store.
func NewAddress(userID string, f AddressFields) *Address {
	return &Address{
		UserID:        userID,
		Label:         strings.TrimSpace(f.Label),
		StreetAddress: strings.TrimSpace(f.StreetAddress),
		City:          strings.TrimSpace(f.City),
		State:         strings.TrimSpace(f.State),
		PostalCode:    strings.TrimSpace(f.PostalCode),
		Country:       strings.TrimSpace(f.Country),
		Latitude:      f.Latitude,
		Longitude:     f.Longitude,
	}
}

// AddressPatch is a partial update. Nil fields keep their stored value.
type AddressPatch struct {
	Label         *string
	StreetAddress *string
	City          *string
	State         *string
	PostalCode    *string
	Country       *string
	Latitude      *float64
	Longitude     *float64
	IsDefault     *bool
}

// Validate rejects present-but-empty required fields and out-of-range
// coordinates.
func (p AddressPatch) Validate() error {
	for _, v := range []*string{p.Label, p.StreetAddress, p.City, p.State, p.PostalCode, p.Country} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return apperrors.InvalidInput(MsgMissingFields)
		}
	}
	return validateCoordinates(p.Latitude, p.Longitude)
}

// Normalize trims the text fields in place.
func (p *AddressPatch) Normalize() {
	for _, v := range []*string{p.Label, p.StreetAddress, p.City, p.State, p.PostalCode, p.Country} {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
}

// Apply copies the set fields of p onto a.
func (p AddressPatch) Apply(a *Address) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&a.Label, p.Label)
	set(&a.StreetAddress, p.StreetAddress)
	set(&a.City, p.City)
	set(&a.State, p.State)
	set(&a.PostalCode, p.PostalCode)
	set(&a.Country, p.Country)
	if p.Latitude != nil {
		a.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		a.Longitude = p.Longitude
	}
	if p.IsDefault != nil && *p.IsDefault {
		a.IsDefault = true
	}
}

// PromotesToDefault reports whether the patch asks for this address to
// become the default.
func (p AddressPatch) PromotesToDefault() bool {
	return p.IsDefault != nil && *p.IsDefault
}

// DemotesDefault reports whether the patch asks to clear the default flag.
func (p AddressPatch) DemotesDefault() bool {
	return p.IsDefault != nil && !*p.IsDefault
}

// CreateResult describes a committed insert.
type CreateResult struct {
	Address        *Address
	IsFirstAddress bool
}

// UpdateResult describes a committed update.
type UpdateResult struct {
	Address *Address
	// DefaultChanged is set when the update moved the default to Address.
	DefaultChanged bool
	// DemotedID is the address that lost the default, if there was one.
	DemotedID string
}

// DeleteResult describes a committed delete.
type DeleteResult struct {
	WasDefault bool
	PromotedID string
}

func validateCoordinates(lat, lng *float64) error {
	if lat != nil && !inRange(*lat, 90) {
		return apperrors.InvalidInput(MsgInvalidCoordinates)
	}
	if lng != nil && !inRange(*lng, 180) {
		return apperrors.InvalidInput(MsgInvalidCoordinates)
	}
	return nil
}

func inRange(v, limit float64) bool {
	return !math.IsNaN(v) && v >= -limit && v <= limit
}
