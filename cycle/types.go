/*
Package cycle provides the core calendar resolution and arithmetic engine.

PURPOSE:
  This package models named, repeating institutional time periods (academic
  semesters, fiscal quarters, UK terms) as first-class values. An Occurrence
  knows its own calendar dates, its display name, and its position within a
  repeating annual cycle, and it sorts and advances by chronological position
  rather than by text.

KEY CONCEPTS IN THIS FILE (types.go):
  - PeriodDefinition: One named division of the annual cycle (e.g. "Fall")
  - Config: A raw, unvalidated calendar definition
  - Occurrence: One concrete instance of a period in a specific calendar year
  - NA: The missing-value state an Occurrence can carry (all fields absent
    together), distinct from an error

DESIGN PRINCIPLES:
  1. Immutability: Occurrences are never modified; arithmetic produces new ones
  2. Explicit configuration: all engine operations are methods on a validated
     *Calendar, never on hidden global state
  3. Precision: fractional values (period progress) use decimal.Decimal
  4. Chronological ordering: collections of occurrences sort by start date,
     not by name or code

USAGE:
  cal, err := cycle.NewCalendar(cfg)
  occ, err := cal.Resolve(1, 2026)    // first period of 2026
  next, err := cal.Shift(occ, 1)

SEE ALSO:
  - calendar.go: Config validation and the Calendar type
  - resolver.go: (position, year) -> Occurrence materialization
  - indexer.go: Global-index arithmetic (shift, distance, sequence)
  - parser.go: Heterogeneous input dispatch
*/
package cycle

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PERIOD DEFINITION - Static configuration for one period of the cycle
// =============================================================================

// PeriodDefinition describes one named division of the annual cycle.
// The order of definitions in a Config defines cyclical sequence,
// not calendar-month order.
type PeriodDefinition struct {
	// Name is the display name, unique within a calendar (e.g. "Fall").
	Name string

	// Code is a short identifier, unique case-insensitively (e.g. "FA").
	Code string

	// StartMonthDay is the period's start as "MM-DD" (e.g. "08-23").
	StartMonthDay string

	// EndMonthDay optionally overrides the computed end date as "MM-DD".
	// When empty, the end is derived from the next period's start.
	EndMonthDay string
}

// Config is a raw calendar definition. Validate it with NewCalendar.
type Config struct {
	// DisplayName labels the calendar itself (e.g. "Semester").
	DisplayName string

	// Periods is the ordered, non-empty cycle of period definitions.
	Periods []PeriodDefinition

	// YearStartPeriod names the period that opens the annual cycle.
	// Must match the Name of one of the Periods.
	YearStartPeriod string

	// StrictMonthMapping makes a month that maps to multiple periods an
	// error instead of applying the highest-start-month tie-break.
	StrictMonthMapping bool

	// MonthOverrides maps a two-digit month ("01".."12") directly to a
	// period name, bypassing the start-month heuristic.
	MonthOverrides map[string]string

	// SingleYearLabel renders year labels as a bare year ("2026")
	// instead of a hyphenated range ("2026-27").
	SingleYearLabel bool
}

// =============================================================================
// OCCURRENCE - One concrete instance of a period in a calendar year
// =============================================================================

// Occurrence is an immutable period instance with resolved dates.
// The zero value is the NA occurrence (missing value, not an error).
type Occurrence struct {
	start        time.Time
	end          time.Time
	name         string
	code         string
	calendarYear int
	position     int // 1-based index within the cycle
	yearLabel    string
	valid        bool
}

// NA returns the missing-value occurrence.
func NA() Occurrence { return Occurrence{} }

// IsNA reports whether the occurrence is the missing value.
func (o Occurrence) IsNA() bool { return !o.valid }

// Accessors. All return zero values on an NA occurrence.

func (o Occurrence) Start() time.Time  { return o.start }
func (o Occurrence) End() time.Time    { return o.end }
func (o Occurrence) Name() string      { return o.name }
func (o Occurrence) Code() string      { return o.code }
func (o Occurrence) CalendarYear() int { return o.calendarYear }
func (o Occurrence) Position() int     { return o.position }
func (o Occurrence) YearLabel() string { return o.yearLabel }

// Midpoint returns the integer-truncated midpoint between start and end.
// Derived on demand, never stored.
func (o Occurrence) Midpoint() time.Time {
	if o.IsNA() {
		return time.Time{}
	}
	return o.start.AddDate(0, 0, DaysBetween(o.start, o.end)/2)
}

// Contains reports whether t falls within [Start, End].
func (o Occurrence) Contains(t time.Time) bool {
	if o.IsNA() {
		return false
	}
	d := dateOf(t)
	return !d.Before(o.start) && !d.After(o.end)
}

// Days returns every day in the occurrence's span.
func (o Occurrence) Days() []time.Time {
	if o.IsNA() {
		return nil
	}
	var days []time.Time
	for current := o.start; !current.After(o.end); current = current.AddDate(0, 0, 1) {
		days = append(days, current)
	}
	return days
}

// Progress returns the fraction of the occurrence elapsed at the given date,
// clamped to [0, 1]. Uses decimal arithmetic so day counts divide exactly.
func (o Occurrence) Progress(at time.Time) decimal.Decimal {
	if o.IsNA() {
		return decimal.Zero
	}
	total := DaysBetween(o.start, o.end) + 1
	elapsed := DaysBetween(o.start, dateOf(at)) + 1
	if elapsed <= 0 {
		return decimal.Zero
	}
	if elapsed >= total {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(elapsed)).Div(decimal.NewFromInt(int64(total)))
}

// String renders the occurrence as "Name Year", or "NA" for the missing value.
func (o Occurrence) String() string {
	if o.IsNA() {
		return "NA"
	}
	return fmt.Sprintf("%s %d", o.name, o.calendarYear)
}

// Equal reports whether two occurrences denote the same period instance.
// Two NA occurrences are equal.
func (o Occurrence) Equal(other Occurrence) bool {
	if o.IsNA() || other.IsNA() {
		return o.IsNA() && other.IsNA()
	}
	return o.position == other.position && o.calendarYear == other.calendarYear &&
		o.start.Equal(other.start) && o.end.Equal(other.end)
}

// SortByStart orders occurrences chronologically by start date, in place.
// NA occurrences sort last.
func SortByStart(occs []Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		if occs[i].IsNA() || occs[j].IsNA() {
			return !occs[i].IsNA() && occs[j].IsNA()
		}
		return occs[i].start.Before(occs[j].start)
	})
}

// =============================================================================
// DATE HELPERS - All engine dates are UTC midnights at day granularity
// =============================================================================

func newDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole days from one date to another.
func DaysBetween(from, to time.Time) int {
	return int(dateOf(to).Sub(dateOf(from)).Hours() / 24)
}
