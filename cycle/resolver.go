/*
resolver.go - (position, year) -> Occurrence materialization

PURPOSE:
  Converts a period occurrence, identified by cycle position and calendar
  year, into its concrete start and end dates. This is the single shared
  resolution path: the parser and the indexer both bottom out here, so
  date-construction logic lives in exactly one place.

END-DATE RULES:
  1. Explicit end override: the override date in the same calendar year,
     rolled forward one year when it lands before the start (the period
     spans a year boundary).
  2. Not the last period: the day before the NEXT period's start, with the
     candidate rolled forward one year unless strictly after the current
     start. This keeps spans monotonic and non-overlapping even when
     periods are defined out of month order.
  3. Last period in cycle order: the day before the year-start period's
     start, one calendar year ahead of this occurrence's academic-year
     start. This closes the cycle so the last period of one annual cycle
     never overlaps the first period of the next.

INVARIANT:
  For any two occurrences adjacent in cycle order (including the wrap
  pair last -> first), the earlier end date is strictly before the later
  start date. Exercised by the property tests in invariants_test.go.
*/
package cycle

import (
	"fmt"
	"time"
)

// Resolve materializes the occurrence of the period at the given 1-based
// cycle position in the given calendar year.
func (c *Calendar) Resolve(position, calendarYear int) (Occurrence, error) {
	if position < 1 || position > len(c.periods) {
		return NA(), &ArithmeticError{
			Op:     "resolve",
			Reason: fmt.Sprintf("period position %d outside [1, %d]", position, len(c.periods)),
		}
	}

	idx := position - 1
	p := c.periods[idx]
	start := newDate(calendarYear, p.startMonth, p.startDay)

	var end time.Time
	switch {
	case p.hasEnd:
		end = newDate(calendarYear, p.endMonth, p.endDay)
		if end.Before(start) {
			end = end.AddDate(1, 0, 0)
		}

	case idx < len(c.periods)-1:
		next := c.periods[idx+1]
		candidate := newDate(calendarYear, next.startMonth, next.startDay)
		if !candidate.After(start) {
			candidate = candidate.AddDate(1, 0, 0)
		}
		end = candidate.AddDate(0, 0, -1)

	default:
		// Wrap around: close against the year-start period's next occurrence.
		ys := c.periods[c.yearStart]
		nextCycle := c.ayStartYear(idx, calendarYear) + 1
		end = newDate(nextCycle, ys.startMonth, ys.startDay).AddDate(0, 0, -1)
	}

	return Occurrence{
		start:        start,
		end:          end,
		name:         p.def.Name,
		code:         p.def.Code,
		calendarYear: calendarYear,
		position:     position,
		yearLabel:    c.labelFor(idx, calendarYear),
		valid:        true,
	}, nil
}

// Containing returns the occurrence whose span contains the given date.
// Unlike the parser's month-granular lookup, this is day-exact. Calendars
// with explicit end overrides can leave gaps between periods; a date in a
// gap fails with a ParseError.
func (c *Calendar) Containing(date time.Time) (Occurrence, error) {
	d := dateOf(date)
	// A span starts in its own calendar year and lasts under two years,
	// so the containing occurrence started this year or the previous one.
	for _, year := range []int{d.Year(), d.Year() - 1} {
		for position := 1; position <= len(c.periods); position++ {
			occ, err := c.Resolve(position, year)
			if err != nil {
				return NA(), err
			}
			if occ.Contains(d) {
				return occ, nil
			}
		}
	}
	return NA(), &ParseError{
		Input:  d.Format("2006-01-02"),
		Reason: "no period contains this date",
	}
}
