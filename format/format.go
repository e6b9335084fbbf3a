/*
Package format renders period occurrences for display and charting.

PURPOSE:
  Thin, read-only views over cycle.Occurrence: named display styles, user
  templates, ordered-category labels for charting front ends, and
  academic-year bucketing. Nothing here touches calendar math; everything
  is derived from the occurrence accessors and the start-date ordering
  contract.

STYLES:
  StyleName   "Fall 2026"
  StyleCode   "FA26"
  StyleKey    "2026-27_1_08_Fall" (canonical key; parses back via the
              composite-key branch of cycle.Parse)
  StyleLabel  "2026-27"

TEMPLATES:
  User templates substitute {name} {code} {year} {yy} {label} {position}
  {start} {end} {mid} placeholders. Dates render as 2006-01-02.

SEE ALSO:
  - cycle/parser.go: Round-trips StyleKey and StyleCode output
*/
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/warp/cycle-engine/cycle"
)

// Style names a built-in rendering of an occurrence.
type Style string

const (
	StyleName  Style = "name"  // "Fall 2026"
	StyleCode  Style = "code"  // "FA26"
	StyleKey   Style = "key"   // "2026-27_1_08_Fall"
	StyleLabel Style = "label" // "2026-27"
)

// naText is rendered for missing occurrences in every style.
const naText = "NA"

// Format renders a single occurrence in the named style.
func Format(o cycle.Occurrence, style Style) (string, error) {
	if o.IsNA() {
		return naText, nil
	}
	switch style {
	case StyleName:
		return fmt.Sprintf("%s %d", o.Name(), o.CalendarYear()), nil
	case StyleCode:
		return fmt.Sprintf("%s%02d", o.Code(), o.CalendarYear()%100), nil
	case StyleKey:
		return fmt.Sprintf("%s_%d_%02d_%s",
			o.YearLabel(), o.Position(), int(o.Start().Month()), o.Name()), nil
	case StyleLabel:
		return o.YearLabel(), nil
	default:
		return "", fmt.Errorf("unknown format style %q", style)
	}
}

// FormatAll renders each occurrence independently.
func FormatAll(occs []cycle.Occurrence, style Style) ([]string, error) {
	out := make([]string, 0, len(occs))
	for _, o := range occs {
		s, err := Format(o, style)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Template renders an occurrence through a user template with {placeholder}
// substitution. Unknown placeholders are left verbatim.
func Template(o cycle.Occurrence, tmpl string) string {
	if o.IsNA() {
		return naText
	}
	r := strings.NewReplacer(
		"{name}", o.Name(),
		"{code}", o.Code(),
		"{year}", fmt.Sprintf("%d", o.CalendarYear()),
		"{yy}", fmt.Sprintf("%02d", o.CalendarYear()%100),
		"{label}", o.YearLabel(),
		"{position}", fmt.Sprintf("%d", o.Position()),
		"{start}", o.Start().Format("2006-01-02"),
		"{end}", o.End().Format("2006-01-02"),
		"{mid}", o.Midpoint().Format("2006-01-02"),
	)
	return r.Replace(tmpl)
}

// Labels returns the distinct labels of the occurrences in chronological
// order - ordered-category levels for charting libraries. NA occurrences
// are skipped.
func Labels(occs []cycle.Occurrence, style Style) ([]string, error) {
	ordered := append([]cycle.Occurrence(nil), occs...)
	cycle.SortByStart(ordered)

	seen := make(map[string]bool)
	var labels []string
	for _, o := range ordered {
		if o.IsNA() {
			continue
		}
		s, err := Format(o, style)
		if err != nil {
			return nil, err
		}
		if !seen[s] {
			seen[s] = true
			labels = append(labels, s)
		}
	}
	return labels, nil
}

// =============================================================================
// YEAR BUCKETING
// =============================================================================

// YearGroup is one academic/fiscal-year bucket of occurrences.
type YearGroup struct {
	Label       string
	Occurrences []cycle.Occurrence
}

// GroupByYear buckets occurrences by their year label. Groups are ordered
// by the minimum start date within each group; occurrences inside a group
// are ordered by start date. NA occurrences are dropped.
func GroupByYear(occs []cycle.Occurrence) []YearGroup {
	buckets := make(map[string][]cycle.Occurrence)
	for _, o := range occs {
		if o.IsNA() {
			continue
		}
		buckets[o.YearLabel()] = append(buckets[o.YearLabel()], o)
	}

	groups := make([]YearGroup, 0, len(buckets))
	for label, members := range buckets {
		cycle.SortByStart(members)
		groups = append(groups, YearGroup{Label: label, Occurrences: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Occurrences[0].Start().Before(groups[j].Occurrences[0].Start())
	})
	return groups
}
