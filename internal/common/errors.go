// Package common defines shared constants and sentinel errors used across
// client and server layers of worktracker. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Validation errors. Everything rejected before any local or remote
	// mutation wraps ErrValidation.
	ErrValidation        = errors.New("validation error")
	ErrProtectedStatus   = fmt.Errorf("%w: status is protected", ErrValidation)
	ErrLastStatus        = fmt.Errorf("%w: at least one status must remain", ErrValidation)
	ErrDuplicateStatus   = fmt.Errorf("%w: status label already exists", ErrValidation)
	ErrUnknownStatus     = fmt.Errorf("%w: unknown status label", ErrValidation)
	ErrInvalidPeriod     = fmt.Errorf("%w: end date precedes start date", ErrValidation)
	ErrUnknownCollection = fmt.Errorf("%w: unknown collection", ErrValidation)

	// Remote confirmation errors.
	ErrSyncFailed    = errors.New("could not be saved")
	ErrCascadeFailed = errors.New("cascade could not be completed")

	// Transport errors.
	ErrUnavailable = errors.New("server unavailable")
)
