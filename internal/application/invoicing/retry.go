package invoicing

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/partshop/backend/internal/domain/shared"
)

// RetryPolicy bounds how often a write transaction is replayed after a
// uniqueness violation or a transient storage failure.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy returns 5 attempts starting at 20ms
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Backoff: 20 * time.Millisecond}
}

func retryable(err error) bool {
	return errors.Is(err, shared.ErrDuplicateKey) || shared.IsKind(err, shared.KindTransient)
}

// delay doubles per attempt and adds up to one base interval of jitter
func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.Backoff <= 0 {
		return 0
	}
	d := p.Backoff << (attempt - 1)
	return d + rand.N(p.Backoff)
}

// run calls fn until it succeeds, fails with a non-retryable error, or the
// attempts are used up. onRetry is called before each replay.
func (p RetryPolicy) run(ctx context.Context, fn func() error, onRetry func(attempt int, err error)) error {
	attempts := max(p.MaxAttempts, 1)
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil || !retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.delay(attempt)):
		}
	}
	if errors.Is(err, shared.ErrDuplicateKey) {
		return shared.NewConflictError("NUMBER_ALLOCATION_FAILED",
			"Could not allocate a unique invoice number, please retry").WithDetail("attempts", attempts)
	}
	return err
}
