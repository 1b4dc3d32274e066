package handler

import (
	"net/http"
	"testing"

	partnerapp "github.com/partshop/backend/internal/application/partner"
	"github.com/partshop/backend/internal/domain/partner"
	"github.com/partshop/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartyHandler_Lifecycle(t *testing.T) {
	s := newTestServer(t)

	w := testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/parties", map[string]any{
		"kind":  "SUPPLIER",
		"name":  "Bharat Auto Spares",
		"gstin": "27AAPFU0939F1ZV",
		"state": "Maharashtra",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var party partnerapp.PartyResponse
	testutil.DecodeResponse(t, w, &party)
	assert.Equal(t, partner.PartyKindSupplier, party.Kind)
	path := "/api/v1/parties/" + party.ID.String()

	w = testutil.PerformJSON(t, s, http.MethodPut, path, map[string]any{"name": "Bharat Auto", "phone": "9800000000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	testutil.DecodeResponse(t, w, &party)
	assert.Equal(t, "Bharat Auto", party.Name)
	assert.Equal(t, "9800000000", party.Phone)

	w = testutil.PerformJSON(t, s, http.MethodPut, path, map[string]any{"kind": "CUSTOMER", "name": "Bharat Auto"})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "PARTY_KIND_IMMUTABLE")

	w = testutil.PerformJSON(t, s, http.MethodGet, "/api/v1/parties?kind=SUPPLIER", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []partnerapp.PartyResponse
	resp := testutil.DecodeResponse(t, w, &list)
	assert.Equal(t, int64(2), resp.Meta.Total)

	w = testutil.PerformJSON(t, s, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.PerformJSON(t, s, http.MethodGet, path, nil)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, "PARTY_NOT_FOUND")
}

func TestPartyHandler_CreateValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		code string
	}{
		{"missing name", map[string]any{"kind": "CUSTOMER"}, "VALIDATION_FAILED"},
		{"short gstin", map[string]any{"kind": "CUSTOMER", "name": "X", "gstin": "27AAP"}, "VALIDATION_FAILED"},
		{"bad email", map[string]any{"kind": "CUSTOMER", "name": "X", "email": "nope"}, "VALIDATION_FAILED"},
		{"unknown kind", map[string]any{"kind": "VENDOR", "name": "X"}, "VALIDATION_FAILED"},
		{"missing kind", map[string]any{"name": "X"}, "INVALID_PARTY_KIND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/parties", tt.body)
			testutil.AssertErrorResponse(t, w, http.StatusBadRequest, tt.code)
		})
	}
}
