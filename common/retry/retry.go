package retry

import (
	"context"
	"errors"
	"fmt"
)

// ErrExhausted is returned when the attempt budget runs out before op
// succeeds. The last conflict error is included in the message.
var ErrExhausted = errors.New("retry budget exhausted")

// ConflictFunc reports whether an error is a retryable conflict
type ConflictFunc func(error) bool

// OnConflict runs op until it succeeds, retrying only when isConflict
// classifies the returned error as a conflict. op is expected to recompute
// its candidate state (next slug, next version) from the latest committed
// state on every attempt. Any non-conflict error aborts immediately.
func OnConflict(ctx context.Context, attempts int, isConflict ConflictFunc, op func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		if !isConflict(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrExhausted, attempts, lastErr)
}
