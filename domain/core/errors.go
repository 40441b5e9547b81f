package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrDataSourceNotFound = fmt.Errorf("%w: data source", ErrNotFound)

	// Validation errors
	ErrInvalidColumn     = errors.New("invalid column")
	ErrEmptyDataset      = errors.New("dataset has no rows")
	ErrInvalidPercentile = errors.New("percentile outside [0, 1]")

	// Statistics errors. These are recorded on a comparison result rather than
	// returned, a run with an empty cohort still produces its reports.
	ErrEmptyCohort         = errors.New("cohort has no members")
	ErrUndefinedEffectSize = errors.New("effect size undefined")
)

// Error constructors with context
func NewDataSourceNotFoundError(path string) error {
	return fmt.Errorf("%w: %s", ErrDataSourceNotFound, path)
}

// NewInvalidColumnError reports a bad column. row is the 1-based data row, or 0
// when the problem concerns the column as a whole (e.g. it is absent).
func NewInvalidColumnError(column string, row int, reason string) error {
	if row <= 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidColumn, column, reason)
	}
	return fmt.Errorf("%w %q at row %d: %s", ErrInvalidColumn, column, row, reason)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewEmptyCohortError(cohort string) error {
	return fmt.Errorf("%w: %s", ErrEmptyCohort, cohort)
}

func NewUndefinedEffectSizeError(reason string) error {
	return fmt.Errorf("%w: %s", ErrUndefinedEffectSize, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidColumn) ||
		errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrInvalidPercentile)
}

func IsCohortError(err error) bool {
	return errors.Is(err, ErrEmptyCohort) ||
		errors.Is(err, ErrUndefinedEffectSize)
}
