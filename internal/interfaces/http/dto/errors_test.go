package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/partshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind     shared.ErrorKind
		expected int
	}{
		{shared.KindValidation, http.StatusBadRequest},
		{shared.KindConflict, http.StatusConflict},
		{shared.KindNotFound, http.StatusNotFound},
		{shared.KindInvalidState, http.StatusUnprocessableEntity},
		{shared.KindTransient, http.StatusServiceUnavailable},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusForKind(tt.kind))
		})
	}
}

func TestFromError(t *testing.T) {
	t.Run("domain error keeps code and details", func(t *testing.T) {
		err := shared.NewInvalidStateError("BULK_DELETE_BLOCKED", "Some invoices are not drafts").
			WithDetail("blocked_ids", []string{"a", "b"})
		status, resp := FromError(fmt.Errorf("wrapped: %w", err), "req-1")

		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "BULK_DELETE_BLOCKED", resp.Error.Code)
		assert.Equal(t, "INVALID_STATE", resp.Error.Kind)
		assert.Equal(t, "req-1", resp.Error.RequestID)
		assert.Equal(t, []string{"a", "b"}, resp.Error.Details["blocked_ids"])
	})

	t.Run("transient hides the cause", func(t *testing.T) {
		err := shared.NewTransientStorageError("Storage temporarily unavailable", errors.New("dial tcp: refused")).
			WithDetail("cause", "dial tcp: refused")
		status, resp := FromError(err, "")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Empty(t, resp.Error.Details)
		assert.NotContains(t, resp.Error.Message, "dial")
	})

	t.Run("plain error is internal", func(t *testing.T) {
		status, resp := FromError(errors.New("pq: relation does not exist"), "req-2")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, ErrCodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, "relation")
	})
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 41, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	empty := NewSuccessResponseWithMeta([]int{}, 0, 1, 0)
	assert.Zero(t, empty.Meta.TotalPages)
}

func TestValidationErrorResponseJSON(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-3", []ValidationDetail{
		{Field: "part_number", Message: "Must look like 12/AB3"},
	})
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errObj["code"])
	assert.Equal(t, "req-3", errObj["request_id"])
	fields := errObj["fields"].([]any)
	assert.Equal(t, "part_number", fields[0].(map[string]any)["field"])
	assert.NotContains(t, decoded, "data")
}
