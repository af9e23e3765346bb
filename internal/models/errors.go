package models

import "errors"

// Error kinds shared by every layer. Wrap with fmt.Errorf("%w: ...") and test with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidState      = errors.New("operation not allowed in current project status")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("concurrent update conflict, retry")
	ErrDuplicate         = errors.New("already exists")
	ErrUnauthorized      = errors.New("unauthorized")
)
