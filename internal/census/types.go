// Package census holds the typed record model for the two input tables
// and the hierarchical index joining them. All entities are read-only
// snapshots built once per analysis run.
package census

import "fmt"

// AgeBand is a contiguous, non-overlapping range of ages. The last band
// in a table may be open-ended (e.g. 85 and over).
type AgeBand struct {
	Lower     int
	Upper     int
	Unbounded bool
}

// Label renders the band the way population table headers spell it,
// e.g. "15-19" or "85+".
func (b AgeBand) Label() string {
	if b.Unbounded {
		return fmt.Sprintf("%d+", b.Lower)
	}
	return fmt.Sprintf("%d-%d", b.Lower, b.Upper)
}

// Contains reports whether age falls inside the band.
func (b AgeBand) Contains(age int) bool {
	if age < b.Lower {
		return false
	}
	return b.Unbounded || age <= b.Upper
}

// AreaRecord is one row of the areas table: an SA2 region and its
// containing SA3 and state. Identity is SA2Code; every SA2 belongs to
// exactly one SA3 and every SA3 to exactly one state.
type AreaRecord struct {
	SA2Code   string
	SA2Name   string
	SA3Code   string
	SA3Name   string
	StateCode string // optional; some table variants omit it
	StateName string
}

// PopulationRecord is the count of people in one age band of one SA2.
// There is at most one record per (SA2, band) pair.
type PopulationRecord struct {
	SA2Code string
	Band    AgeBand
	Count   int
}
