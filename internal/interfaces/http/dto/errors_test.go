package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"already exists", ErrCodeAlreadyExists, http.StatusConflict},
		{"concurrency conflict", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"invalid input", ErrCodeInvalidInput, http.StatusBadRequest},
		{"validation", ErrCodeValidation, http.StatusBadRequest},
		{"insufficient stock", ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{"deduction mismatch", ErrCodeDeductionMismatch, http.StatusUnprocessableEntity},
		{"insufficient batch quantity", ErrCodeInsufficientBatchQuantity, http.StatusUnprocessableEntity},
		{"invalid recipe yield", ErrCodeInvalidRecipeYield, http.StatusUnprocessableEntity},
		{"no schedule", ErrCodeNoSchedule, http.StatusUnprocessableEntity},
		{"ledger integrity fault", ErrCodeLedgerIntegrityFault, http.StatusInternalServerError},
		{"rate limited", ErrCodeRateLimited, http.StatusTooManyRequests},
		{"internal", ErrCodeInternal, http.StatusInternalServerError},
		{"unknown code falls back to 500", "ERR_SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"domain not found", "NOT_FOUND", ErrCodeNotFound},
		{"domain concurrency conflict", "CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"domain deduction mismatch", "DEDUCTION_MISMATCH", ErrCodeDeductionMismatch},
		{"deduction required maps to mismatch", "DEDUCTION_REQUIRED", ErrCodeDeductionMismatch},
		{"unknown batch maps to invalid input", "UNKNOWN_BATCH", ErrCodeInvalidInput},
		{"invalid quantity maps to invalid input", "INVALID_QUANTITY", ErrCodeInvalidInput},
		{"already normalized", ErrCodeNotFound, ErrCodeNotFound},
		{"unknown code passes through", "SOMETHING_CUSTOM", "SOMETHING_CUSTOM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Stock item not found", "req-42")

	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Stock item not found", resp.Error.Message)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{{Field: "quantity", Message: "This field is required"}}
	resp := NewValidationErrorResponse("Request validation failed", "req-7", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-7", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "quantity", resp.Error.Details[0].Field)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
