package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AfsalAzizi/food-delivery-platform/pkg/httputil"
	"github.com/AfsalAzizi/food-delivery-platform/pkg/middleware"
	"github.com/AfsalAzizi/food-delivery-platform/pkg/validator"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/service"
)

// MsgAddressDeleted is returned in the body of a successful delete.
const MsgAddressDeleted = "Address deleted successfully"

// AddressHandler handles HTTP requests for the caller's addresses.
type AddressHandler struct {
	service *service.AddressService
	logger  *slog.Logger
}

// NewAddressHandler creates a new address HTTP handler.
func NewAddressHandler(svc *service.AddressService, logger *slog.Logger) *AddressHandler {
	return &AddressHandler{service: svc, logger: logger}
}

// CountResponse is the body of GET /user/addresses/count.
type CountResponse struct {
	Count int `json:"count"`
}

// DeleteResponse is the body of DELETE /user/addresses/{id}.
type DeleteResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Create handles POST /user/address
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	// Missing fields are reported before bad coordinates.
	var req CreateAddressRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err, requiredMessage(err, domain.MsgMissingFields))
		return
	}
	if req.coordinatesInvalid() {
		httputil.WriteValidationError(w, errInvalidCoordinates, domain.MsgInvalidCoordinates)
		return
	}

	address, err := h.service.AddAddress(r.Context(), middleware.UserIDFromContext(r.Context()), req.fields())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, address)
}

// List handles GET /user/addresses
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.service.ListAddresses(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, addresses)
}

// Count handles GET /user/addresses/count
func (h *AddressHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.CountAddresses(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, CountResponse{Count: n})
}

// Get handles GET /user/addresses/{id}
func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	address, err := h.service.GetAddress(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, address)
}

// Update handles PUT /user/addresses/{id}
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req UpdateAddressRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err, "")
		return
	}
	if req.coordinatesInvalid() {
		httputil.WriteValidationError(w, errInvalidCoordinates, domain.MsgInvalidCoordinates)
		return
	}

	address, err := h.service.UpdateAddress(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, address)
}

// Delete handles DELETE /user/addresses/{id}
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteAddress(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, DeleteResponse{ID: id, Message: MsgAddressDeleted})
}
