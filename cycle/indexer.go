/*
indexer.go - Global-index arithmetic over period occurrences

PURPOSE:
  Maps every period occurrence to a single signed integer - its absolute
  position in a gap-free enumeration of all periods across all years -
  and builds addition, subtraction, distance, and sequence generation on
  top of that mapping. The index is a computation intermediate only; it
  is never stored on an Occurrence.

MAPPING:
  index  = ayOffset * periodCount + (position - 1)
  where ayOffset is the calendar year in which the occurrence's enclosing
  academic/fiscal year begins (the same start-month rule the year label
  uses). Inversion uses floor division/modulo so negative indexes (years
  before 0 in the enumeration) round the right way.

NA HANDLING:
  Shift maps NA to NA, bypassing index math entirely. Scalar distance
  over NA fails; the vectorized form yields a nil element instead.
*/
package cycle

import "fmt"

// GlobalIndex returns the occurrence's absolute position in the gap-free
// enumeration of all periods across all years.
func (c *Calendar) GlobalIndex(o Occurrence) (int, error) {
	if o.IsNA() {
		return 0, &ArithmeticError{Op: "index", Reason: "occurrence is NA"}
	}
	if o.position < 1 || o.position > len(c.periods) {
		return 0, &ArithmeticError{
			Op:     "index",
			Reason: fmt.Sprintf("period position %d outside [1, %d]", o.position, len(c.periods)),
		}
	}
	ay := c.ayStartYear(o.position-1, o.calendarYear)
	return ay*len(c.periods) + (o.position - 1), nil
}

// FromGlobalIndex inverts GlobalIndex and materializes the occurrence.
func (c *Calendar) FromGlobalIndex(index int) (Occurrence, error) {
	n := len(c.periods)
	ay := floorDiv(index, n)
	idx := floorMod(index, n)

	// Inverse of the year-label rule: periods starting before the
	// year-start month belong to the calendar year after the AY start.
	year := ay
	if c.periods[idx].startMonth < c.periods[c.yearStart].startMonth {
		year = ay + 1
	}
	return c.Resolve(idx+1, year)
}

// Shift advances the occurrence by n periods (negative n goes backward).
// NA shifts to NA.
func (c *Calendar) Shift(o Occurrence, n int) (Occurrence, error) {
	if o.IsNA() {
		return NA(), nil
	}
	index, err := c.GlobalIndex(o)
	if err != nil {
		return NA(), err
	}
	return c.FromGlobalIndex(index + n)
}

// ShiftAll shifts each occurrence independently. NA elements stay NA.
func (c *Calendar) ShiftAll(occs []Occurrence, n int) ([]Occurrence, error) {
	out := make([]Occurrence, len(occs))
	for i, o := range occs {
		shifted, err := c.Shift(o, n)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = shifted
	}
	return out, nil
}

// Distance returns the signed number of periods from b to a
// (positive when a is after b).
func (c *Calendar) Distance(a, b Occurrence) (int, error) {
	ia, err := c.GlobalIndex(a)
	if err != nil {
		return 0, err
	}
	ib, err := c.GlobalIndex(b)
	if err != nil {
		return 0, err
	}
	return ia - ib, nil
}

// Distances computes elementwise distances between two equal-length
// collections. An NA element on either side yields a nil result at that
// position; a length mismatch is an arithmetic error.
func (c *Calendar) Distances(a, b []Occurrence) ([]*int, error) {
	if len(a) != len(b) {
		return nil, &ArithmeticError{
			Op:     "distance",
			Reason: fmt.Sprintf("operand lengths differ: %d vs %d", len(a), len(b)),
		}
	}
	out := make([]*int, len(a))
	for i := range a {
		if a[i].IsNA() || b[i].IsNA() {
			continue
		}
		d, err := c.Distance(a[i], b[i])
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		v := d
		out[i] = &v
	}
	return out, nil
}

// Sequence generates the inclusive, evenly stepped range of occurrences
// from one endpoint to the other. The step must be nonzero and agree in
// sign with the direction of the range. Pure function of its inputs.
func (c *Calendar) Sequence(from, to Occurrence, step int) ([]Occurrence, error) {
	if step == 0 {
		return nil, &ArithmeticError{Op: "sequence", Reason: "step must be a nonzero integer"}
	}
	start, err := c.GlobalIndex(from)
	if err != nil {
		return nil, err
	}
	stop, err := c.GlobalIndex(to)
	if err != nil {
		return nil, err
	}
	diff := stop - start
	if (diff > 0 && step < 0) || (diff < 0 && step > 0) {
		return nil, &ArithmeticError{
			Op:     "sequence",
			Reason: fmt.Sprintf("step %d disagrees with range direction (distance %d)", step, diff),
		}
	}

	var out []Occurrence
	for i := start; (step > 0 && i <= stop) || (step < 0 && i >= stop); i += step {
		occ, err := c.FromGlobalIndex(i)
		if err != nil {
			return nil, err
		}
		out = append(out, occ)
	}
	return out, nil
}

// =============================================================================
// FLOOR DIVISION - Go's integer division truncates toward zero
// =============================================================================

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}
