/*
parser.go - Heterogeneous input dispatch into period occurrences

PURPOSE:
  Turns free-form input - composite keys, compact year-month numbers,
  "Name Year" text, and code forms like "FA26" - into period occurrences.
  Each branch only derives a (position, calendarYear) pair; the actual
  date construction is delegated to Resolve so it exists exactly once.

DISPATCH (first match wins):
  1. Composite key "YYYY-YY_<index>_<MM>_<Name...>", the canonical
     key-style rendering. A hyphenated prefix is the academic-year label
     (the calendar year follows from the period's position relative to
     the year start); single-year-label calendars render a bare-year
     prefix, which is the calendar year itself. Name lookup is exact.
     A disputed embedded month proceeds with the configured start month
     and raises a non-fatal warning through the warn hook.
  2. All-digit strings of length 5 or 6, treated as YYYYM (below).
  3. Strings containing a 4-digit run: "Name Year" or "Year Name",
     case-insensitive name match.
  4. Numbers as YYYYM (5 digits: single-digit month, 6 digits: two-digit
     month), resolved to a period via explicit month overrides or the
     highest-start-month tie-break; otherwise the code form "{code}{YY}"
     with the 00-49 -> 2000s, 50-99 -> 1900s window.

NA:
  nil and the literal string "NA" are missing values, not errors, and
  parse to the NA occurrence. Vectorized parsing handles each element
  independently; empty input produces empty output.
*/
package cycle

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// warnf receives non-fatal parser warnings. Defaults to the standard logger.
var warnf = log.Printf

// SetWarnHandler replaces the destination for non-fatal parser warnings
// and returns the previous handler. Pass nil to discard warnings.
func SetWarnHandler(f func(format string, args ...any)) func(format string, args ...any) {
	prev := warnf
	if f == nil {
		f = func(string, ...any) {}
	}
	warnf = f
	return prev
}

var (
	compositeKeyRe = regexp.MustCompile(`^(\d{4})(-\d{2})?_(\d+)_(\d{2})_(.+)$`)
	allDigitsRe    = regexp.MustCompile(`^\d+$`)
	yearRunRe      = regexp.MustCompile(`\d{4}`)
)

// Parse dispatches a single value into a period occurrence.
// nil parses to the NA occurrence.
func (c *Calendar) Parse(value any) (Occurrence, error) {
	switch v := value.(type) {
	case nil:
		return NA(), nil
	case string:
		return c.parseString(v)
	case int:
		return c.parseYearMonth(v)
	case int8:
		return c.parseYearMonth(int(v))
	case int16:
		return c.parseYearMonth(int(v))
	case int32:
		return c.parseYearMonth(int(v))
	case int64:
		return c.parseYearMonth(int(v))
	case uint:
		return c.parseYearMonth(int(v))
	case uint8:
		return c.parseYearMonth(int(v))
	case uint16:
		return c.parseYearMonth(int(v))
	case uint32:
		return c.parseYearMonth(int(v))
	case uint64:
		return c.parseYearMonth(int(v))
	case float32:
		return c.parseFloat(float64(v))
	case float64:
		return c.parseFloat(v)
	default:
		return NA(), &ParseError{
			Input:  fmt.Sprintf("%v", value),
			Reason: fmt.Sprintf("unsupported input type %T", value),
		}
	}
}

// ParseAll parses each element independently and concatenates the results.
// Empty input produces an empty sequence; nil elements become NA.
func (c *Calendar) ParseAll(values []any) ([]Occurrence, error) {
	out := make([]Occurrence, 0, len(values))
	for i, v := range values {
		occ, err := c.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, occ)
	}
	return out, nil
}

func (c *Calendar) parseFloat(v float64) (Occurrence, error) {
	if v != float64(int(v)) {
		return NA(), &ParseError{
			Input:  strconv.FormatFloat(v, 'g', -1, 64),
			Reason: "numeric input must be an integer",
		}
	}
	return c.parseYearMonth(int(v))
}

// =============================================================================
// STRING DISPATCH
// =============================================================================

func (c *Calendar) parseString(s string) (Occurrence, error) {
	s = strings.TrimSpace(s)
	if s == "NA" {
		return NA(), nil
	}

	// Branch 1: composite key.
	if m := compositeKeyRe.FindStringSubmatch(s); m != nil {
		return c.parseCompositeKey(s, m)
	}

	// Branch 2: all digits, length 5 or 6 -> YYYYM.
	if allDigitsRe.MatchString(s) && (len(s) == 5 || len(s) == 6) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return NA(), &ParseError{Input: s, Reason: "not a valid number"}
		}
		return c.parseYearMonth(n)
	}

	// Branch 3: text containing a 4-digit year, "Name Year" or "Year Name".
	if year := yearRunRe.FindString(s); year != "" {
		return c.parseNameYear(s, year)
	}

	// Branch 4 fallthrough: code form "{code}{YY}".
	return c.parseCodeForm(s)
}

func (c *Calendar) parseCompositeKey(s string, m []string) (Occurrence, error) {
	year, _ := strconv.Atoi(m[1])
	labeled := m[2] != ""
	month, _ := strconv.Atoi(m[4])
	name := m[5]

	idx, ok := c.byName[name]
	if !ok {
		return NA(), &ParseError{Input: s, Reason: fmt.Sprintf("unknown period name %q", name)}
	}
	if time.Month(month) != c.periods[idx].startMonth {
		warnf("period key %q: embedded month %02d disagrees with configured start month %02d for %q; using configured month",
			s, month, int(c.periods[idx].startMonth), name)
	}
	// A hyphenated prefix is the academic-year label, so periods starting
	// before the year-start month fall in the following calendar year. A
	// bare prefix is the calendar year itself.
	if labeled && c.periods[idx].startMonth < c.periods[c.yearStart].startMonth {
		year++
	}
	return c.Resolve(idx+1, year)
}

func (c *Calendar) parseNameYear(s, yearRun string) (Occurrence, error) {
	year, err := strconv.Atoi(yearRun)
	if err != nil {
		return NA(), &ParseError{Input: s, Reason: "invalid year"}
	}
	name := strings.TrimSpace(strings.Replace(s, yearRun, "", 1))
	if name == "" {
		return NA(), &ParseError{Input: s, Reason: "no period name alongside the year"}
	}
	position, ok := c.positionOfFold(name)
	if !ok {
		return NA(), &ParseError{Input: s, Reason: fmt.Sprintf("unknown period name %q", name)}
	}
	return c.Resolve(position, year)
}

func (c *Calendar) parseCodeForm(s string) (Occurrence, error) {
	if len(s) < 3 {
		return NA(), &ParseError{Input: s, Reason: "matches no accepted representation"}
	}
	suffix := s[len(s)-2:]
	if !allDigitsRe.MatchString(suffix) {
		return NA(), &ParseError{Input: s, Reason: "matches no accepted representation"}
	}
	prefix := s[:len(s)-2]

	position := 0
	matched := ""
	for i, p := range c.periods {
		if strings.EqualFold(p.def.Code, prefix) && len(p.def.Code) > len(matched) {
			position = i + 1
			matched = p.def.Code
		}
	}
	if position == 0 {
		return NA(), &ParseError{Input: s, Reason: fmt.Sprintf("no period code matches %q", prefix)}
	}

	yy, _ := strconv.Atoi(suffix)
	year := 1900 + yy
	if yy <= 49 {
		year = 2000 + yy
	}
	return c.Resolve(position, year)
}

// =============================================================================
// YYYYM - Compact numeric year-month encoding
// =============================================================================

func (c *Calendar) parseYearMonth(n int) (Occurrence, error) {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	input := strconv.Itoa(n)

	var year, month int
	switch {
	case abs >= 10000 && abs <= 99999: // YYYYM, single-digit month
		year, month = abs/10, abs%10
	case abs >= 100000 && abs <= 999999: // YYYYMM, two-digit month
		year, month = abs/100, abs%100
	default:
		return NA(), &ParseError{Input: input, Reason: "numeric value must have 5 or 6 digits (YYYYM)"}
	}
	if month < 1 || month > 12 {
		return NA(), &ParseError{Input: input, Reason: fmt.Sprintf("month %d out of range 1-12", month)}
	}

	position, calendarYear, err := c.resolveMonth(time.Month(month), year)
	if err != nil {
		return NA(), err
	}
	return c.Resolve(position, calendarYear)
}

// resolveMonth maps a month within a calendar year to a (position, year)
// pair, applying explicit overrides first and the start-month heuristic
// otherwise.
func (c *Calendar) resolveMonth(month time.Month, year int) (int, int, error) {
	if idx, ok := c.overrides[month]; ok {
		return idx + 1, year, nil
	}

	// Candidates: every period already started by this month.
	best := -1
	var names []string
	for i, p := range c.periods {
		if p.startMonth <= month {
			names = append(names, p.def.Name)
			if best == -1 || p.startMonth > c.periods[best].startMonth {
				best = i
			}
		}
	}

	switch {
	case best == -1:
		// Nothing has started yet this year: the month falls in the tail
		// of the previous cycle, i.e. the last period started a year ago.
		return len(c.periods), year - 1, nil
	case len(names) > 1 && c.cfg.StrictMonthMapping:
		return 0, 0, &AmbiguousMonthError{Month: month, Candidates: names}
	default:
		return best + 1, year, nil
	}
}
