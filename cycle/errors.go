/*
errors.go - Centralized error types for the cycle engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  Callers match with errors.Is against the sentinels; structured errors
  carry context and Unwrap to the matching sentinel.

ERROR CATEGORIES:
  1. Configuration errors - Malformed calendar definitions
  2. Lookup errors        - Unknown preset, no active calendar
  3. Parse errors         - Input matching no accepted representation
  4. Arithmetic errors    - Zero/sign-mismatched step, length mismatch

USAGE:
  if errors.Is(err, cycle.ErrAmbiguousMonth) {
      // strict mode rejected a month that maps to multiple periods
  }

SEE ALSO:
  - calendar.go: Raises ConfigError during validation
  - parser.go:   Raises ParseError / AmbiguousMonthError
  - indexer.go:  Raises ArithmeticError
*/
package cycle

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrConfig is returned when a calendar configuration is malformed.
	// The previously active configuration, if any, is left untouched.
	ErrConfig = errors.New("invalid calendar configuration")

	// ErrUnknownPreset is returned when a preset identifier is not built in.
	ErrUnknownPreset = errors.New("unknown calendar preset")

	// ErrNoCalendar is returned when no calendar has been configured yet.
	ErrNoCalendar = errors.New("no calendar configured")

	// ErrParse is returned when input matches no accepted representation
	// or names an unknown period.
	ErrParse = errors.New("unparseable period value")

	// ErrAmbiguousMonth is returned in strict mode when a month maps to
	// more than one period and no override decides it.
	ErrAmbiguousMonth = errors.New("month maps to multiple periods")

	// ErrArithmetic is returned for zero or sign-mismatched steps, operand
	// length mismatches, and index math over NA values.
	ErrArithmetic = errors.New("period arithmetic error")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigError describes a specific validation failure in a Config.
type ConfigError struct {
	Field  string // e.g. "periods[2].start", "year_start_period"
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid calendar configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// ParseError describes input that could not be dispatched to any branch.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// AmbiguousMonthError reports the qualifying candidates in strict mode.
type AmbiguousMonthError struct {
	Month      time.Month
	Candidates []string
}

func (e *AmbiguousMonthError) Error() string {
	return fmt.Sprintf("month %d maps to multiple periods %v (strict month mapping)",
		int(e.Month), e.Candidates)
}

func (e *AmbiguousMonthError) Unwrap() error { return ErrAmbiguousMonth }

// ArithmeticError describes a failed index-math operation.
type ArithmeticError struct {
	Op     string // "shift", "distance", "sequence", "resolve"
	Reason string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ArithmeticError) Unwrap() error { return ErrArithmetic }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsInputError returns true if the error is due to invalid caller input
// rather than missing configuration.
func IsInputError(err error) bool {
	return errors.Is(err, ErrParse) ||
		errors.Is(err, ErrAmbiguousMonth) ||
		errors.Is(err, ErrArithmetic) ||
		errors.Is(err, ErrConfig)
}
