/*
presets.go - Built-in calendar configurations

PURPOSE:
  Static Config values for common institutional calendars. These are
  configuration data, not behavior: each one passes through the same
  NewCalendar validation as a user-defined calendar.

PRESETS:
  semester     Fall / Spring / Summer, year starts with Fall
  quarter      Calendar quarters Q1-Q4, bare-year labels
  term         UK university terms (Michaelmas / Lent / Easter)
  trimester    Three even terms starting in September
  fiscal       US federal fiscal year, quarters starting October 1
  twosemester  Fall / Spring only

SEE ALSO:
  - registry.go: ActivatePreset(id)
*/
package cycle

import "sort"

var presets = map[string]Config{
	"semester": {
		DisplayName:     "Semester (Fall / Spring / Summer)",
		YearStartPeriod: "Fall",
		Periods: []PeriodDefinition{
			{Name: "Fall", Code: "FA", StartMonthDay: "08-23"},
			{Name: "Spring", Code: "SP", StartMonthDay: "01-15"},
			{Name: "Summer", Code: "SU", StartMonthDay: "06-01"},
		},
	},
	"quarter": {
		DisplayName:     "Calendar Quarters",
		YearStartPeriod: "Q1",
		SingleYearLabel: true,
		Periods: []PeriodDefinition{
			{Name: "Q1", Code: "Q1", StartMonthDay: "01-01"},
			{Name: "Q2", Code: "Q2", StartMonthDay: "04-01"},
			{Name: "Q3", Code: "Q3", StartMonthDay: "07-01"},
			{Name: "Q4", Code: "Q4", StartMonthDay: "10-01"},
		},
	},
	"term": {
		DisplayName:     "UK University Terms",
		YearStartPeriod: "Michaelmas",
		Periods: []PeriodDefinition{
			{Name: "Michaelmas", Code: "MI", StartMonthDay: "10-01"},
			{Name: "Lent", Code: "LE", StartMonthDay: "01-15"},
			{Name: "Easter", Code: "EA", StartMonthDay: "04-25"},
		},
	},
	"trimester": {
		DisplayName:     "Trimester",
		YearStartPeriod: "T1",
		Periods: []PeriodDefinition{
			{Name: "T1", Code: "T1", StartMonthDay: "09-01"},
			{Name: "T2", Code: "T2", StartMonthDay: "01-01"},
			{Name: "T3", Code: "T3", StartMonthDay: "05-01"},
		},
	},
	"fiscal": {
		DisplayName:     "US Federal Fiscal Year",
		YearStartPeriod: "Q1",
		Periods: []PeriodDefinition{
			{Name: "Q1", Code: "Q1", StartMonthDay: "10-01"},
			{Name: "Q2", Code: "Q2", StartMonthDay: "01-01"},
			{Name: "Q3", Code: "Q3", StartMonthDay: "04-01"},
			{Name: "Q4", Code: "Q4", StartMonthDay: "07-01"},
		},
	},
	"twosemester": {
		DisplayName:     "Two-Semester System",
		YearStartPeriod: "Fall",
		Periods: []PeriodDefinition{
			{Name: "Fall", Code: "FA", StartMonthDay: "09-01"},
			{Name: "Spring", Code: "SP", StartMonthDay: "02-01"},
		},
	},
}

// Preset returns the built-in configuration for id.
func Preset(id string) (Config, error) {
	cfg, ok := presets[id]
	if !ok {
		return Config{}, ErrUnknownPreset
	}
	// Copy so callers cannot mutate the shared preset.
	cfg.Periods = append([]PeriodDefinition(nil), cfg.Periods...)
	return cfg, nil
}

// PresetIDs returns the built-in preset identifiers, sorted.
func PresetIDs() []string {
	ids := make([]string, 0, len(presets))
	for id := range presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
