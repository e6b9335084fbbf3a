/*
academicyear.go - Academic/fiscal year labeling

PURPOSE:
  Computes the annual-cycle label a period occurrence belongs to, e.g.
  "2026-27" for Fall 2026 in a semester calendar whose year starts with
  Fall. The rule compares start MONTHS only, not full dates, matching
  institutional convention that a month belongs wholly to the period it
  starts nearest.

RULE:
  If a period's start month is on or after the year-start period's start
  month, the academic year begins in the occurrence's calendar year;
  otherwise it began the year before. SingleYearLabel calendars render
  the bare calendar year instead of a hyphenated range.

SEE ALSO:
  - resolver.go: Attaches labels to resolved occurrences
  - indexer.go:  Reuses the same offset for global-index math
*/
package cycle

import (
	"fmt"
	"strconv"
)

// ayStartYear returns the calendar year in which the academic/fiscal year
// enclosing (period idx, calendarYear) begins. idx is 0-based.
func (c *Calendar) ayStartYear(idx, calendarYear int) int {
	if c.periods[idx].startMonth >= c.periods[c.yearStart].startMonth {
		return calendarYear
	}
	return calendarYear - 1
}

// labelFor renders the year label for (period idx, calendarYear). idx is
// 0-based.
func (c *Calendar) labelFor(idx, calendarYear int) string {
	if c.cfg.SingleYearLabel {
		return strconv.Itoa(calendarYear)
	}
	start := c.ayStartYear(idx, calendarYear)
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// YearLabel returns the academic/fiscal year label for the named period
// occurring in calendarYear.
func (c *Calendar) YearLabel(periodName string, calendarYear int) (string, error) {
	idx, ok := c.byName[periodName]
	if !ok {
		return "", &ParseError{Input: periodName, Reason: "unknown period name"}
	}
	return c.labelFor(idx, calendarYear), nil
}
