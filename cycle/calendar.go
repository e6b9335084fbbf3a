/*
calendar.go - Config validation and the immutable Calendar type

PURPOSE:
  Turns a raw Config into a validated, immutable Calendar that every other
  engine operation hangs off. Validation is all-or-nothing: a Config either
  becomes a usable Calendar or fails with a ConfigError, so a Calendar in
  hand is always internally consistent.

VALIDATION RULES:
  - At least one period
  - Every period has a name, a code, and a start "MM-DD"
  - "MM-DD" has MM in 01-12 and DD valid for that month
  - Names unique; codes unique case-insensitively
  - YearStartPeriod names one of the defined periods
  - Month override keys are "01".."12"; values name defined periods

SEE ALSO:
  - registry.go: Installs validated calendars as the active one
  - presets.go:  Built-in Config values
*/
package cycle

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// periodInfo is the parsed, validated form of a PeriodDefinition.
type periodInfo struct {
	def        PeriodDefinition
	startMonth time.Month
	startDay   int
	hasEnd     bool
	endMonth   time.Month
	endDay     int
}

// Calendar is a validated calendar configuration. It is immutable after
// construction and safe for concurrent use.
type Calendar struct {
	cfg       Config
	periods   []periodInfo
	yearStart int                // 0-based index of the year-start period
	byName    map[string]int     // exact name -> 0-based index
	overrides map[time.Month]int // month -> 0-based index
}

// NewCalendar validates cfg and returns the immutable Calendar form.
// All failures unwrap to ErrConfig.
func NewCalendar(cfg Config) (*Calendar, error) {
	if len(cfg.Periods) == 0 {
		return nil, &ConfigError{Field: "periods", Reason: "at least one period is required"}
	}

	cal := &Calendar{
		cfg:       cfg,
		yearStart: -1,
		byName:    make(map[string]int, len(cfg.Periods)),
		overrides: make(map[time.Month]int),
	}

	seenCodes := make(map[string]bool, len(cfg.Periods))
	for i, def := range cfg.Periods {
		field := fmt.Sprintf("periods[%d]", i)
		if def.Name == "" {
			return nil, &ConfigError{Field: field + ".name", Reason: "period name is required"}
		}
		if def.Code == "" {
			return nil, &ConfigError{Field: field + ".code", Reason: "period code is required"}
		}
		if _, dup := cal.byName[def.Name]; dup {
			return nil, &ConfigError{Field: field + ".name", Reason: fmt.Sprintf("duplicate period name %q", def.Name)}
		}
		lower := strings.ToLower(def.Code)
		if seenCodes[lower] {
			return nil, &ConfigError{Field: field + ".code", Reason: fmt.Sprintf("duplicate period code %q", def.Code)}
		}

		month, day, err := parseMonthDay(def.StartMonthDay)
		if err != nil {
			return nil, &ConfigError{Field: field + ".start", Reason: err.Error()}
		}
		info := periodInfo{def: def, startMonth: month, startDay: day}

		if def.EndMonthDay != "" {
			endMonth, endDay, err := parseMonthDay(def.EndMonthDay)
			if err != nil {
				return nil, &ConfigError{Field: field + ".end", Reason: err.Error()}
			}
			info.hasEnd = true
			info.endMonth = endMonth
			info.endDay = endDay
		}

		cal.byName[def.Name] = i
		seenCodes[lower] = true
		cal.periods = append(cal.periods, info)
	}

	if cfg.YearStartPeriod == "" {
		return nil, &ConfigError{Field: "year_start_period", Reason: "year-start period is required"}
	}
	idx, ok := cal.byName[cfg.YearStartPeriod]
	if !ok {
		return nil, &ConfigError{
			Field:  "year_start_period",
			Reason: fmt.Sprintf("%q is not a defined period", cfg.YearStartPeriod),
		}
	}
	cal.yearStart = idx

	for key, name := range cfg.MonthOverrides {
		month, err := parseOverrideMonth(key)
		if err != nil {
			return nil, &ConfigError{Field: "month_overrides." + key, Reason: err.Error()}
		}
		target, ok := cal.byName[name]
		if !ok {
			return nil, &ConfigError{
				Field:  "month_overrides." + key,
				Reason: fmt.Sprintf("%q is not a defined period", name),
			}
		}
		cal.overrides[month] = target
	}

	return cal, nil
}

// DisplayName returns the calendar's own label.
func (c *Calendar) DisplayName() string { return c.cfg.DisplayName }

// Config returns a copy of the raw configuration the calendar was built from.
func (c *Calendar) Config() Config {
	cfg := c.cfg
	cfg.Periods = append([]PeriodDefinition(nil), c.cfg.Periods...)
	if c.cfg.MonthOverrides != nil {
		cfg.MonthOverrides = make(map[string]string, len(c.cfg.MonthOverrides))
		for k, v := range c.cfg.MonthOverrides {
			cfg.MonthOverrides[k] = v
		}
	}
	return cfg
}

// PeriodCount returns the number of periods in one annual cycle.
func (c *Calendar) PeriodCount() int { return len(c.periods) }

// Periods returns the ordered period definitions.
func (c *Calendar) Periods() []PeriodDefinition {
	defs := make([]PeriodDefinition, len(c.periods))
	for i, p := range c.periods {
		defs[i] = p.def
	}
	return defs
}

// PositionOf returns the 1-based cycle position of the named period.
func (c *Calendar) PositionOf(name string) (int, bool) {
	idx, ok := c.byName[name]
	return idx + 1, ok
}

// positionOfFold matches a period name case-insensitively.
func (c *Calendar) positionOfFold(name string) (int, bool) {
	for i, p := range c.periods {
		if strings.EqualFold(p.def.Name, name) {
			return i + 1, true
		}
	}
	return 0, false
}

// =============================================================================
// MONTH-DAY PARSING
// =============================================================================

var monthDayRe = regexp.MustCompile(`^(\d{2})-(\d{2})$`)

// daysInMonth is the maximum valid day per month; February admits 29
// (a leap-day start normalizes to March 1 in common years).
var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func parseMonthDay(s string) (time.Month, int, error) {
	m := monthDayRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%q does not match MM-DD", s)
	}
	month := int(m[1][0]-'0')*10 + int(m[1][1]-'0')
	day := int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month %02d out of range 01-12", month)
	}
	if day < 1 || day > daysInMonth[month] {
		return 0, 0, fmt.Errorf("day %02d invalid for month %02d", day, month)
	}
	return time.Month(month), day, nil
}

func parseOverrideMonth(key string) (time.Month, error) {
	if len(key) != 2 || key[0] < '0' || key[0] > '9' || key[1] < '0' || key[1] > '9' {
		return 0, fmt.Errorf("override key %q must be a two-digit month", key)
	}
	month := int(key[0]-'0')*10 + int(key[1]-'0')
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("override key %q outside 01-12", key)
	}
	return time.Month(month), nil
}
