/*
invariants_test.go - Executable invariants of the cycle engine

PURPOSE:
  These tests document and enforce the engine's structural guarantees
  across every built-in calendar, not just the reference semester one:

  1. Non-overlap  - adjacent occurrences never overlap, including the
                    last-of-cycle -> first-of-next-cycle pair
  2. Round trip   - code-form rendering parses back to the same occurrence
  3. Additive inverse      - shift(shift(x, k), -k) == x
  4. Distance consistency  - distance(shift(x, k), x) == k
  5. Monotonic sequences   - step-1 sequences strictly increase by start date

READING THESE TESTS:
  Each test iterates all presets and several years, so a failure names
  the preset and occurrence that broke the property.
*/
package cycle_test

import (
	"testing"

	"github.com/warp/cycle-engine/cycle"
)

func presetCalendars(t *testing.T) map[string]*cycle.Calendar {
	t.Helper()
	cals := make(map[string]*cycle.Calendar)
	for _, id := range cycle.PresetIDs() {
		cfg, err := cycle.Preset(id)
		if err != nil {
			t.Fatalf("preset %q: %v", id, err)
		}
		cal, err := cycle.NewCalendar(cfg)
		if err != nil {
			t.Fatalf("preset %q: %v", id, err)
		}
		cals[id] = cal
	}
	return cals
}

func TestInvariant_AdjacentOccurrencesNeverOverlap(t *testing.T) {
	// Three full cycles, so every adjacency appears at least twice,
	// including the wraparound pair.
	for id, cal := range presetCalendars(t) {
		first, err := cal.Resolve(1, 2025)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		last, err := cal.Shift(first, 3*cal.PeriodCount())
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		occs, err := cal.Sequence(first, last, 1)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}

		for i := 1; i < len(occs); i++ {
			prev, curr := occs[i-1], occs[i]
			if !prev.End().Before(curr.Start()) {
				t.Errorf("%s: %s ends %v, on or after %s starts %v",
					id, prev, prev.End(), curr, curr.Start())
			}
			// Contiguity: derived ends (no explicit overrides in presets)
			// leave no gap either.
			if !prev.End().AddDate(0, 0, 1).Equal(curr.Start()) {
				t.Errorf("%s: gap between %s and %s", id, prev, curr)
			}
		}
	}
}

func TestInvariant_CodeFormRoundTrip(t *testing.T) {
	for id, cal := range presetCalendars(t) {
		for year := 2024; year <= 2027; year++ {
			for position := 1; position <= cal.PeriodCount(); position++ {
				occ, err := cal.Resolve(position, year)
				if err != nil {
					t.Fatalf("%s: %v", id, err)
				}

				code := occ.Code()
				rendered := code + occ.Start().Format("06")
				back, err := cal.Parse(rendered)
				if err != nil {
					t.Fatalf("%s: parse(%q): %v", id, rendered, err)
				}
				if !back.Start().Equal(occ.Start()) {
					t.Errorf("%s: %q: start %v != %v", id, rendered, back.Start(), occ.Start())
				}
				if back.YearLabel() != occ.YearLabel() {
					t.Errorf("%s: %q: label %q != %q", id, rendered, back.YearLabel(), occ.YearLabel())
				}
			}
		}
	}
}

func TestInvariant_ShiftHasAdditiveInverse(t *testing.T) {
	for id, cal := range presetCalendars(t) {
		occ, err := cal.Resolve(1, 2026)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		for _, k := range []int{-17, -3, -1, 0, 1, 5, 40} {
			there, err := cal.Shift(occ, k)
			if err != nil {
				t.Fatalf("%s: shift %d: %v", id, k, err)
			}
			back, err := cal.Shift(there, -k)
			if err != nil {
				t.Fatalf("%s: shift %d back: %v", id, k, err)
			}
			if !back.Equal(occ) {
				t.Errorf("%s: shift(shift(x, %d), %d): got %s, want %s", id, k, -k, back, occ)
			}
		}
	}
}

func TestInvariant_DistanceMatchesShift(t *testing.T) {
	for id, cal := range presetCalendars(t) {
		occ, err := cal.Resolve(1, 2026)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		for _, k := range []int{-9, -1, 0, 2, 13} {
			shifted, err := cal.Shift(occ, k)
			if err != nil {
				t.Fatalf("%s: %v", id, err)
			}
			d, err := cal.Distance(shifted, occ)
			if err != nil {
				t.Fatalf("%s: %v", id, err)
			}
			if d != k {
				t.Errorf("%s: distance(shift(x, %d), x) = %d", id, k, d)
			}
		}
	}
}

func TestInvariant_SequencesAreChronologicallyMonotonic(t *testing.T) {
	for id, cal := range presetCalendars(t) {
		from, err := cal.Resolve(1, 2025)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		to, err := cal.Shift(from, 2*cal.PeriodCount()+1)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		occs, err := cal.Sequence(from, to, 1)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		for i := 1; i < len(occs); i++ {
			if !occs[i-1].Start().Before(occs[i].Start()) {
				t.Errorf("%s: start dates not strictly increasing at %d: %v, %v",
					id, i, occs[i-1].Start(), occs[i].Start())
			}
		}
	}
}
