package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Table and schema errors
	ErrEmptyTable     = errors.New("table has no rows")
	ErrUnknownColumn  = errors.New("unknown column")
	ErrNoGroupColumns = errors.New("no group-by columns given")
	ErrBadIndicator   = errors.New("value is not a 0/1 indicator")

	// Time and date errors
	ErrBadClockTime = errors.New("malformed clock time")
	ErrBadDate      = errors.New("malformed date")

	// Solar calculation errors
	ErrInvalidLocation = errors.New("invalid location")
	ErrNoTwilight      = errors.New("no civil twilight on date")
)

// NewColumnError reports a column that a table was expected to carry.
func NewColumnError(column, table string) error {
	return fmt.Errorf("%w: %q not present in %s table", ErrUnknownColumn, column, table)
}

// NewIndicatorError reports a cell that cannot be normalized to 0 or 1.
func NewIndicatorError(column string, value any) error {
	return fmt.Errorf("%w: column %q holds %v (%T)", ErrBadIndicator, column, value, value)
}

// NewLocationError reports an unusable latitude/longitude/timezone triple.
// Location problems are always surfaced, never silently defaulted.
func NewLocationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidLocation, reason)
}

// Error checking helpers
func IsInvalidLocation(err error) bool {
	return errors.Is(err, ErrInvalidLocation)
}

func IsSchemaError(err error) bool {
	return errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrNoGroupColumns) ||
		errors.Is(err, ErrBadIndicator)
}
