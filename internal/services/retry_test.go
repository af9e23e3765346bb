package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRetryWithExponentialBackoff(t *testing.T) {
	conflict := fmt.Errorf("%w: could not obtain lock", models.ErrConflict)

	tests := []struct {
		name      string
		failures  []error
		options   []RetryOption
		wantErr   error
		wantCalls int
	}{
		{
			name:      "success first try",
			wantCalls: 1,
		},
		{
			name:      "conflict then success",
			failures:  []error{conflict, conflict},
			wantCalls: 3,
		},
		{
			name:      "permanent error fails fast",
			failures:  []error{models.ErrInsufficientFunds},
			wantErr:   models.ErrInsufficientFunds,
			wantCalls: 1,
		},
		{
			name:      "conflict exhausts attempts",
			failures:  []error{conflict, conflict, conflict, conflict, conflict},
			options:   []RetryOption{WithMaxAttempts(3)},
			wantErr:   models.ErrConflict,
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			fn := func(ctx context.Context) error {
				defer func() { calls++ }()
				if calls < len(tt.failures) {
					return tt.failures[calls]
				}
				return nil
			}

			opts := append([]RetryOption{WithBaseDelay(time.Millisecond)}, tt.options...)
			err := RetryWithExponentialBackoff(context.Background(), fn, opts...)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestRetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	fn := func(ctx context.Context) error { return nil }

	assert.ErrorIs(t, RetryWithExponentialBackoff(context.Background(), fn, WithMaxAttempts(0)), ErrInvalidMaxAttempts)
	assert.ErrorIs(t, RetryWithExponentialBackoff(context.Background(), fn, WithBaseDelay(-time.Second)), ErrNegativeBaseDelay)
	assert.ErrorIs(t, RetryWithExponentialBackoff(context.Background(), fn, WithJitterFactor(1.5)), ErrInvalidJitterFactor)
}

func TestRetryWithExponentialBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	fn := func(ctx context.Context) error {
		calls++
		cancel()
		return models.ErrConflict
	}

	err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Second))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, calls)
}

func TestRetryWithExponentialBackoff_OnRetryHook(t *testing.T) {
	var attempts []int
	calls := 0
	fn := func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return models.ErrConflict
		}
		return nil
	}

	err := RetryWithExponentialBackoff(context.Background(), fn,
		WithBaseDelay(0),
		withOnRetry(func(attempt int, err error) { attempts = append(attempts, attempt) }),
	)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2}, attempts)
}
