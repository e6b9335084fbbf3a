/*
Package factory provides JSON to Go calendar conversion.

PURPOSE:
  Converts JSON calendar definitions into cycle.Config values. This enables
  calendar configuration without code changes - registrars can define
  institutional calendars in JSON, store them in the database, and the
  factory produces the proper Go structs.

WHY JSON?
  - Non-developers can define calendars
  - Easy integration with an admin UI
  - Version control for calendar definitions
  - Database storage of calendar configs

JSON SCHEMA:
  {
    "id": "semester-custom",
    "display_name": "Custom Semester",
    "year_start_period": "Fall",
    "strict_month_mapping": false,
    "single_year_label": false,
    "month_overrides": {"12": "Fall"},
    "periods": [
      {"name": "Fall",   "code": "FA", "start": "08-23"},
      {"name": "Spring", "code": "SP", "start": "01-15"},
      {"name": "Summer", "code": "SU", "start": "06-01", "end": "08-10"}
    ]
  }

KEY FEATURES:
  - Validates JSON structure; semantic validation stays in cycle.NewCalendar
  - year_start_period defaults to the first period when omitted
  - Round trips: ToJSON(FromJSON(x)) preserves the definition

USAGE:
  f := factory.NewCalendarFactory()
  cfg, err := f.Parse(jsonStr)
  cal, err := cycle.NewCalendar(cfg)

SEE ALSO:
  - cycle/calendar.go: Semantic validation of the produced Config
  - store/sqlite:      Persists the JSON form
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/cycle-engine/cycle"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CalendarJSON is the JSON representation of a calendar configuration.
type CalendarJSON struct {
	ID                 string            `json:"id,omitempty"`
	DisplayName        string            `json:"display_name"`
	YearStartPeriod    string            `json:"year_start_period,omitempty"`
	StrictMonthMapping bool              `json:"strict_month_mapping,omitempty"`
	SingleYearLabel    bool              `json:"single_year_label,omitempty"`
	MonthOverrides     map[string]string `json:"month_overrides,omitempty"`
	Periods            []PeriodJSON      `json:"periods"`
}

// PeriodJSON is the JSON representation of one period definition.
type PeriodJSON struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Start string `json:"start"`         // "MM-DD"
	End   string `json:"end,omitempty"` // optional "MM-DD" override
}

// =============================================================================
// CALENDAR FACTORY
// =============================================================================

// CalendarFactory converts JSON calendars to cycle.Config values.
type CalendarFactory struct{}

// NewCalendarFactory creates a new calendar factory.
func NewCalendarFactory() *CalendarFactory {
	return &CalendarFactory{}
}

// Parse parses a JSON string into a cycle.Config.
func (f *CalendarFactory) Parse(jsonStr string) (cycle.Config, error) {
	var cj CalendarJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return cycle.Config{}, fmt.Errorf("failed to parse calendar JSON: %w", err)
	}
	return f.FromJSON(cj)
}

// FromJSON converts CalendarJSON to a cycle.Config.
func (f *CalendarFactory) FromJSON(cj CalendarJSON) (cycle.Config, error) {
	cfg := cycle.Config{
		DisplayName:        cj.DisplayName,
		YearStartPeriod:    cj.YearStartPeriod,
		StrictMonthMapping: cj.StrictMonthMapping,
		SingleYearLabel:    cj.SingleYearLabel,
		MonthOverrides:     cj.MonthOverrides,
	}
	for _, pj := range cj.Periods {
		cfg.Periods = append(cfg.Periods, cycle.PeriodDefinition{
			Name:          pj.Name,
			Code:          pj.Code,
			StartMonthDay: pj.Start,
			EndMonthDay:   pj.End,
		})
	}

	// Default: the first period opens the annual cycle.
	if cfg.YearStartPeriod == "" && len(cfg.Periods) > 0 {
		cfg.YearStartPeriod = cfg.Periods[0].Name
	}
	return cfg, nil
}

// ToJSON serializes a cycle.Config back to its JSON form.
func (f *CalendarFactory) ToJSON(cfg cycle.Config) (string, error) {
	cj := CalendarJSON{
		DisplayName:        cfg.DisplayName,
		YearStartPeriod:    cfg.YearStartPeriod,
		StrictMonthMapping: cfg.StrictMonthMapping,
		SingleYearLabel:    cfg.SingleYearLabel,
		MonthOverrides:     cfg.MonthOverrides,
	}
	for _, p := range cfg.Periods {
		cj.Periods = append(cj.Periods, PeriodJSON{
			Name:  p.Name,
			Code:  p.Code,
			Start: p.StartMonthDay,
			End:   p.EndMonthDay,
		})
	}
	data, err := json.Marshal(cj)
	if err != nil {
		return "", fmt.Errorf("failed to serialize calendar: %w", err)
	}
	return string(data), nil
}
