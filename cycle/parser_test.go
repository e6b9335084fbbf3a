package cycle_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/warp/cycle-engine/cycle"
)

// =============================================================================
// COMPOSITE KEYS
// =============================================================================

func TestParse_CompositeKey(t *testing.T) {
	cal := semesterCalendar(t)

	occ, err := cal.Parse("2026-27_1_08_Fall")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ.String() != "Fall 2026" {
		t.Errorf("expected Fall 2026, got %s", occ)
	}
	if !occ.Start().Equal(date(2026, time.August, 23)) {
		t.Errorf("expected start 2026-08-23, got %v", occ.Start())
	}
}

func TestParse_CompositeKeyLabelTrailsCalendarYear(t *testing.T) {
	// Spring 2027 belongs to AY 2026-27: the key's leading year is the
	// label's start year, one behind the occurrence's calendar year.
	cal := semesterCalendar(t)

	occ, err := cal.Parse("2026-27_2_01_Spring")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ.String() != "Spring 2027" {
		t.Errorf("expected Spring 2027, got %s", occ)
	}
	if occ.YearLabel() != "2026-27" {
		t.Errorf("expected label 2026-27, got %q", occ.YearLabel())
	}
}

func TestParse_CompositeKeyBareYearLabel(t *testing.T) {
	// Single-year-label calendars render keys with a bare-year prefix,
	// which is the calendar year itself.
	cfg, err := cycle.Preset("quarter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cal, err := cycle.NewCalendar(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	occ, err := cal.Parse("2026_1_01_Q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ.String() != "Q1 2026" {
		t.Errorf("expected Q1 2026, got %s", occ)
	}
	if !occ.Start().Equal(date(2026, time.January, 1)) {
		t.Errorf("expected start 2026-01-01, got %v", occ.Start())
	}
}

func TestParse_CompositeKeyMonthDisputeWarnsAndProceeds(t *testing.T) {
	cal := semesterCalendar(t)

	var warnings []string
	prev := cycle.SetWarnHandler(func(format string, args ...any) {
		warnings = append(warnings, format)
	})
	defer cycle.SetWarnHandler(prev)

	// Embedded month 09 disputes Fall's configured 08: resolution proceeds
	// with the configured month and surfaces a warning.
	occ, err := cal.Parse("2026-27_1_09_Fall")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !occ.Start().Equal(date(2026, time.August, 23)) {
		t.Errorf("expected the configured start 2026-08-23, got %v", occ.Start())
	}
	if len(warnings) != 1 {
		t.Errorf("expected exactly one warning, got %d", len(warnings))
	}
}

func TestParse_CompositeKeyUnknownName(t *testing.T) {
	cal := semesterCalendar(t)
	if _, err := cal.Parse("2026-27_1_08_Winter"); !errors.Is(err, cycle.ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
	// Composite-key names are case-sensitive exact matches.
	if _, err := cal.Parse("2026-27_1_08_fall"); !errors.Is(err, cycle.ErrParse) {
		t.Errorf("expected ErrParse for lowercased name, got %v", err)
	}
}

// =============================================================================
// YYYYM - Numeric year-month forms
// =============================================================================

func TestParse_NumericYearMonth(t *testing.T) {
	cal := semesterCalendar(t)

	cases := []struct {
		input any
		want  string
	}{
		{"20268", "Fall 2026"},    // August 2026: Fall has the highest start month <= 8
		{"202701", "Spring 2027"}, // January 2027: only Spring has started
		{20268, "Fall 2026"},      // same, as a number
		{202610, "Fall 2026"},     // October: Fall still the latest started
		{20267, "Summer 2026"},    // July: Summer (06) beats Spring (01)
		{float64(20268), "Fall 2026"},
		{int16(20268), "Fall 2026"},
		{uint16(20268), "Fall 2026"},
	}
	for _, tc := range cases {
		occ, err := cal.Parse(tc.input)
		if err != nil {
			t.Fatalf("parse(%v): unexpected error: %v", tc.input, err)
		}
		if occ.String() != tc.want {
			t.Errorf("parse(%v): expected %s, got %s", tc.input, tc.want, occ)
		}
	}
}

func TestParse_NumericRejectsBadShapes(t *testing.T) {
	cal := semesterCalendar(t)

	// Narrow integer types reach the numeric branch too; a value with too
	// few digits is a parse error there, not an unsupported type.
	for _, input := range []any{2026, 2026813, 202600, 202613, 20260, 3.5, uint8(42), int8(7)} {
		if _, err := cal.Parse(input); !errors.Is(err, cycle.ErrParse) {
			t.Errorf("parse(%v): expected ErrParse, got %v", input, err)
		}
	}
}

func TestParse_MonthBeforeEveryStartBelongsToPreviousCycle(t *testing.T) {
	// GIVEN: A calendar whose earliest period starts in March
	// WHEN: Parsing a January stamp
	// THEN: The month falls in the tail of the previous cycle, i.e. the
	//       last period started the year before
	cfg := cycle.Config{
		DisplayName:     "Late-start",
		YearStartPeriod: "A",
		Periods: []cycle.PeriodDefinition{
			{Name: "A", Code: "AA", StartMonthDay: "03-01"},
			{Name: "B", Code: "BB", StartMonthDay: "09-01"},
		},
	}
	cal, err := cycle.NewCalendar(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	occ, err := cal.Parse("20271")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ.String() != "B 2026" {
		t.Errorf("expected B 2026, got %s", occ)
	}
}

func TestParse_MonthOverridesWin(t *testing.T) {
	cfg := semesterConfig()
	cfg.MonthOverrides = map[string]string{"08": "Summer"}
	cal, err := cycle.NewCalendar(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	occ, err := cal.Parse("20268")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ.String() != "Summer 2026" {
		t.Errorf("expected the override to win, got %s", occ)
	}
}

func TestParse_StrictMonthMappingRejectsAmbiguity(t *testing.T) {
	cfg := semesterConfig()
	cfg.StrictMonthMapping = true
	cal, err := cycle.NewCalendar(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// August qualifies Fall, Spring, and Summer.
	_, err = cal.Parse("20268")
	if !errors.Is(err, cycle.ErrAmbiguousMonth) {
		t.Fatalf("expected ErrAmbiguousMonth, got %v", err)
	}
	var ambiguous *cycle.AmbiguousMonthError
	if !errors.As(err, &ambiguous) || len(ambiguous.Candidates) != 3 {
		t.Errorf("expected 3 candidates in the error, got %+v", ambiguous)
	}

	// January maps to exactly one period, so strict mode still accepts it.
	occ, err := cal.Parse("202701")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ.String() != "Spring 2027" {
		t.Errorf("expected Spring 2027, got %s", occ)
	}

	// An override silences the ambiguity.
	cfg.MonthOverrides = map[string]string{"08": "Fall"}
	cal, err = cycle.NewCalendar(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ, err := cal.Parse("20268"); err != nil || occ.String() != "Fall 2026" {
		t.Errorf("expected Fall 2026 via override, got %v (err=%v)", occ, err)
	}
}

// =============================================================================
// TEXT AND CODE FORMS
// =============================================================================

func TestParse_NameYearText(t *testing.T) {
	cal := semesterCalendar(t)

	for _, input := range []string{"Fall 2026", "2026 Fall", "  fall 2026  ", "FALL 2026"} {
		occ, err := cal.Parse(input)
		if err != nil {
			t.Fatalf("parse(%q): unexpected error: %v", input, err)
		}
		if occ.String() != "Fall 2026" {
			t.Errorf("parse(%q): expected Fall 2026, got %s", input, occ)
		}
	}

	if _, err := cal.Parse("Winter 2026"); !errors.Is(err, cycle.ErrParse) {
		t.Errorf("expected ErrParse for an unknown name, got %v", err)
	}
	if _, err := cal.Parse("2026"); !errors.Is(err, cycle.ErrParse) {
		t.Errorf("expected ErrParse for a bare year, got %v", err)
	}
}

func TestParse_CodeForm(t *testing.T) {
	cal := semesterCalendar(t)

	cases := []struct {
		input string
		want  string
	}{
		{"FA26", "Fall 2026"},
		{"fa26", "Fall 2026"}, // codes match case-insensitively
		{"SP49", "Spring 2049"},
		{"SU50", "Summer 1950"}, // 50-99 expand into the 1900s
		{"FA00", "Fall 2000"},
	}
	for _, tc := range cases {
		occ, err := cal.Parse(tc.input)
		if err != nil {
			t.Fatalf("parse(%q): unexpected error: %v", tc.input, err)
		}
		if occ.String() != tc.want {
			t.Errorf("parse(%q): expected %s, got %s", tc.input, tc.want, occ)
		}
	}

	for _, input := range []string{"XX26", "FA2", "FA", "FA266"} {
		if _, err := cal.Parse(input); !errors.Is(err, cycle.ErrParse) {
			t.Errorf("parse(%q): expected ErrParse, got %v", input, err)
		}
	}
}

func TestParse_UnsupportedType(t *testing.T) {
	cal := semesterCalendar(t)
	if _, err := cal.Parse([]string{"Fall"}); !errors.Is(err, cycle.ErrParse) {
		t.Errorf("expected ErrParse for an unsupported type, got %v", err)
	}
}

// =============================================================================
// VECTORIZED PARSING
// =============================================================================

func TestParseAll_ElementwiseWithNA(t *testing.T) {
	cal := semesterCalendar(t)

	occs, err := cal.ParseAll([]any{"FA26", nil, "Spring 2027", "NA"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occs) != 4 {
		t.Fatalf("expected 4 occurrences, got %d", len(occs))
	}
	if occs[0].String() != "Fall 2026" || occs[2].String() != "Spring 2027" {
		t.Errorf("unexpected values: %v", occs)
	}
	if !occs[1].IsNA() || !occs[3].IsNA() {
		t.Errorf("expected NA at positions 1 and 3: %v", occs)
	}
}

func TestParseAll_EmptyInput(t *testing.T) {
	cal := semesterCalendar(t)
	occs, err := cal.ParseAll(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occs) != 0 {
		t.Errorf("expected empty output, got %d elements", len(occs))
	}
}

func TestParseAll_ErrorNamesTheOffendingElement(t *testing.T) {
	cal := semesterCalendar(t)
	_, err := cal.ParseAll([]any{"FA26", "XX99"})
	if err == nil || !strings.Contains(err.Error(), "element 1") {
		t.Errorf("expected the error to name element 1, got %v", err)
	}
}
