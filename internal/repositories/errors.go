package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

// PostgreSQL SQLSTATE codes the repositories translate into domain errors.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
)

// classify wraps driver errors with the matching domain error kind.
// Errors it does not recognise are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", models.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return fmt.Errorf("%w: %s", models.ErrConflict, pgErr.Message)
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", models.ErrDuplicate, pgErr.ConstraintName)
	case pgCheckViolation:
		if pgErr.ConstraintName == "wallets_balance_check" {
			return fmt.Errorf("%w: %s", models.ErrInsufficientFunds, pgErr.Message)
		}
		return fmt.Errorf("%w: %s", models.ErrValidation, pgErr.Message)
	}
	return err
}
