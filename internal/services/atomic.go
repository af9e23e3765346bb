package services

import (
	"context"

	"github.com/sbilibin2017/gw-freelance-escrow/internal/logger"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/metrics"
)

//go:generate mockgen -source=atomic.go -destination=mock_atomic.go -package=services

// TxRunner runs a unit of work inside one database transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error       // Read-write, commits on nil error
	WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error // Read-only, single snapshot
}

// runAtomic runs fn as one transaction and repeats the whole unit when storage reports a conflict.
// Every attempt re-reads its state; nothing from a failed attempt is kept.
func runAtomic(ctx context.Context, tx TxRunner, op string, opts []RetryOption, fn func(ctx context.Context) error) error {
	options := make([]RetryOption, 0, len(opts)+1)
	options = append(options, withOnRetry(func(attempt int, err error) {
		metrics.RecordLedgerRetry(op)
		logger.FromContext(ctx).Warnw("retrying after storage conflict", "operation", op, "attempt", attempt, "error", err)
	}))
	options = append(options, opts...)

	return RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		return tx.WithinTx(ctx, fn)
	}, options...)
}
