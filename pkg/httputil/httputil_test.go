package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/AfsalAzizi/food-delivery-platform/pkg/errors"
	"github.com/AfsalAzizi/food-delivery-platform/pkg/logger"
	"github.com/AfsalAzizi/food-delivery-platform/pkg/validator"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteData(rec, http.StatusCreated, map[string]int{"count": 2})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"count":2}}`, rec.Body.String())
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user/addresses/x", nil)

	WriteError(rec, req, fmt.Errorf("get address: %w", apperrors.NotFound("address", "x")), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "address with id x not found", resp.Error.Message)
}

func TestWriteError_SentinelNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, fmt.Errorf("scan: %w", apperrors.ErrNotFound), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec).Error.Code)
}

func TestWriteError_InternalIsLoggedAndHidden(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))

	rec := httptest.NewRecorder()
	ctx := logger.WithCorrelationID(context.Background(), "req-42")
	req := httptest.NewRequest(http.MethodDelete, "/user/addresses/a", nil).WithContext(ctx)

	WriteError(rec, req, fmt.Errorf("commit transaction: connection reset"), l)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.Equal(t, "an internal error occurred", resp.Error.Message)
	assert.Equal(t, "req-42", resp.Error.RequestID)
	assert.Contains(t, buf.String(), "connection reset")
}

func TestWriteValidationError(t *testing.T) {
	type req struct {
		City string `json:"city" validate:"required"`
	}
	err := validator.Validate(req{})

	rec := httptest.NewRecorder()
	WriteValidationError(rec, err, "Missing required fields")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "Missing required fields", resp.Error.Message)
	assert.Equal(t, "is required", resp.Error.Fields["city"])
}

func TestWriteValidationError_PlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, fmt.Errorf("decode request body: EOF"), "")

	resp := decode(t, rec)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Equal(t, "decode request body: EOF", resp.Error.Message)
}
