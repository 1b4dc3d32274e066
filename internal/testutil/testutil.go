// Package testutil provides common test utilities for the shop backend.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/require"
)

// NewTestUUID generates a deterministic UUID for testing.
// Uses the provided seed string to create a reproducible UUID.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestUserID returns a standard user ID for tests.
func TestUserID() uuid.UUID {
	return NewTestUUID("test-user")
}

// ActorContext returns a background context carrying the standard test user.
func ActorContext() context.Context {
	return shared.WithActor(context.Background(), shared.Actor{ID: TestUserID(), Role: "admin"})
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// RequireKind asserts err carries a DomainError of kind and code.
func RequireKind(t *testing.T, err error, kind shared.ErrorKind, code string) *shared.DomainError {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	require.Equal(t, kind, de.Kind, "kind of %q", de.Code)
	if code != "" {
		require.Equal(t, code, de.Code)
	}
	return de
}

// RequireEventually is like assert.Eventually but fails immediately.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
