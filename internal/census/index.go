package census

import (
	"strings"

	"go.uber.org/zap"
)

// IndexOptions controls how population records are joined to the area
// hierarchy.
type IndexOptions struct {
	// Strict fails the build on the first population row referencing an
	// SA2 code absent from the areas table. The default skips and counts
	// such rows.
	Strict bool
	// Logger receives per-row skip diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// Index joins population records to their administrative hierarchy
// (SA2 -> SA3 -> state) and answers membership, ordering and
// distribution lookups. It is built once and read-only afterwards, so
// independent queries may use it concurrently without locking.
//
// The index keeps flat membership maps plus per-SA2 distributions.
// Each SA2 belongs to exactly one SA3 and each SA3 to one state: the
// first area row for a code wins.
type Index struct {
	bands []AgeBand

	sa2ToSA3   map[string]string // SA2 code -> SA3 code
	sa3ToState map[string]string // SA3 code -> state name (lower-case)
	sa3Names   map[string]string // SA3 code -> SA3 name (lower-case)
	sa2Names   map[string]string // SA2 code -> SA2 name (lower-case)
	stateCodes map[string]string // state name -> state code ("" if absent)

	states    []string            // state names, first-encountered order
	stateSA3s map[string][]string // state name -> SA3 codes, input order
	sa3SA2s   map[string][]string // SA3 code -> SA2 codes, input order

	dist map[string]map[AgeBand]int // SA2 code -> band -> count

	skippedUnknown int
	droppedDupes   int
}

// BuildIndex constructs the index from the two typed tables. Grouping
// names (state, SA3, SA2) are normalized to lower-case here, once, so
// aggregation never compares raw strings. Codes are never case-folded.
//
// The build is deterministic: totals and orderings depend only on the
// input sequences, and two runs over the same input agree exactly.
func BuildIndex(areas []AreaRecord, pops []PopulationRecord, bands []AgeBand, opt IndexOptions) (*Index, error) {
	idx := &Index{
		bands:      bands,
		sa2ToSA3:   make(map[string]string, len(areas)),
		sa3ToState: make(map[string]string),
		sa3Names:   make(map[string]string),
		sa2Names:   make(map[string]string, len(areas)),
		stateCodes: make(map[string]string),
		stateSA3s:  make(map[string][]string),
		sa3SA2s:    make(map[string][]string),
		dist:       make(map[string]map[AgeBand]int, len(areas)),
	}

	for _, a := range areas {
		sa2 := strings.TrimSpace(a.SA2Code)
		if sa2 == "" {
			continue
		}
		if _, dup := idx.sa2ToSA3[sa2]; dup {
			continue // first row for an SA2 wins
		}
		sa3 := strings.TrimSpace(a.SA3Code)
		state := canonName(a.StateName)

		idx.sa2ToSA3[sa2] = sa3
		idx.sa2Names[sa2] = canonName(a.SA2Name)
		idx.sa3SA2s[sa3] = append(idx.sa3SA2s[sa3], sa2)

		if _, seen := idx.sa3ToState[sa3]; !seen {
			idx.sa3ToState[sa3] = state
			idx.sa3Names[sa3] = canonName(a.SA3Name)
			if _, seen := idx.stateCodes[state]; !seen {
				idx.states = append(idx.states, state)
				idx.stateCodes[state] = strings.TrimSpace(a.StateCode)
			}
			idx.stateSA3s[state] = append(idx.stateSA3s[state], sa3)
		}
	}

	for _, p := range pops {
		sa2 := strings.TrimSpace(p.SA2Code)
		if _, known := idx.sa2ToSA3[sa2]; !known {
			if opt.Strict {
				return nil, &UnknownRegionError{SA2Code: sa2}
			}
			idx.skippedUnknown++
			if opt.Logger != nil {
				opt.Logger.Warn("skipping population row for unknown region",
					zap.String("sa2_code", sa2))
			}
			continue
		}
		d := idx.dist[sa2]
		if d == nil {
			d = make(map[AgeBand]int, len(bands))
			idx.dist[sa2] = d
		}
		if _, dup := d[p.Band]; dup {
			// Duplicate (SA2, band) pairs are dropped, never summed.
			idx.droppedDupes++
			if opt.Logger != nil {
				opt.Logger.Warn("dropping duplicate population row",
					zap.String("sa2_code", sa2), zap.String("band", p.Band.Label()))
			}
			continue
		}
		d[p.Band] = p.Count
	}

	if opt.Logger != nil {
		opt.Logger.Info("census index built",
			zap.Int("areas", len(idx.sa2ToSA3)),
			zap.Int("states", len(idx.states)),
			zap.Int("skipped_unknown", idx.skippedUnknown),
			zap.Int("dropped_duplicates", idx.droppedDupes))
	}
	return idx, nil
}

func canonName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Bands returns the band table the index was built with, in ascending
// order. The slice is shared and must not be mutated.
func (idx *Index) Bands() []AgeBand { return idx.bands }

// States returns state names (lower-case) in first-encountered order.
func (idx *Index) States() []string { return idx.states }

// StateCode returns the code recorded for a state, or "" when the
// areas table variant carried none.
func (idx *Index) StateCode(state string) string { return idx.stateCodes[state] }

// SA3sInState returns SA3 codes for a state in first-encountered order.
func (idx *Index) SA3sInState(state string) []string { return idx.stateSA3s[state] }

// SA2sInSA3 returns SA2 codes for an SA3 in first-encountered order.
func (idx *Index) SA2sInSA3(sa3Code string) []string { return idx.sa3SA2s[sa3Code] }

// SA3ForSA2 returns the SA3 code containing the given SA2.
func (idx *Index) SA3ForSA2(sa2Code string) (string, bool) {
	sa3, ok := idx.sa2ToSA3[sa2Code]
	return sa3, ok
}

// StateForSA3 returns the state name (lower-case) containing the SA3.
func (idx *Index) StateForSA3(sa3Code string) (string, bool) {
	state, ok := idx.sa3ToState[sa3Code]
	return state, ok
}

// HasSA2 reports whether the SA2 code appears in the areas table.
func (idx *Index) HasSA2(sa2Code string) bool {
	_, ok := idx.sa2ToSA3[sa2Code]
	return ok
}

// HasSA3 reports whether the SA3 code appears in the areas table.
func (idx *Index) HasSA3(sa3Code string) bool {
	_, ok := idx.sa3ToState[sa3Code]
	return ok
}

// SA3Name returns the lower-case name for an SA3 code.
func (idx *Index) SA3Name(sa3Code string) string { return idx.sa3Names[sa3Code] }

// SA2Name returns the lower-case name for an SA2 code.
func (idx *Index) SA2Name(sa2Code string) string { return idx.sa2Names[sa2Code] }

// Count returns the population of one band in one SA2. Missing cells
// are zero.
func (idx *Index) Count(sa2Code string, band AgeBand) int {
	return idx.dist[sa2Code][band]
}

// Distribution returns the SA2's population-by-age vector in band
// order, suitable for the statistics engine. Bands with no record are
// zero, keeping all vectors the same length.
func (idx *Index) Distribution(sa2Code string) []float64 {
	vec := make([]float64, len(idx.bands))
	d := idx.dist[sa2Code]
	for i, b := range idx.bands {
		vec[i] = float64(d[b])
	}
	return vec
}

// SA2Total returns the all-ages population of an SA2.
func (idx *Index) SA2Total(sa2Code string) int {
	var total int
	for _, n := range idx.dist[sa2Code] {
		total += n
	}
	return total
}

// SA3Total returns the all-ages population of an SA3, summed over its
// member SA2s.
func (idx *Index) SA3Total(sa3Code string) int {
	var total int
	for _, sa2 := range idx.sa3SA2s[sa3Code] {
		total += idx.SA2Total(sa2)
	}
	return total
}

// SA3BandTotal returns an SA3's population in a single band.
func (idx *Index) SA3BandTotal(sa3Code string, band AgeBand) int {
	var total int
	for _, sa2 := range idx.sa3SA2s[sa3Code] {
		total += idx.dist[sa2][band]
	}
	return total
}

// StateTotal returns the all-ages population of a state.
func (idx *Index) StateTotal(state string) int {
	var total int
	for _, sa3 := range idx.stateSA3s[state] {
		total += idx.SA3Total(sa3)
	}
	return total
}

// StateBandTotal returns a state's population in a single band.
func (idx *Index) StateBandTotal(state string, band AgeBand) int {
	var total int
	for _, sa3 := range idx.stateSA3s[state] {
		total += idx.SA3BandTotal(sa3, band)
	}
	return total
}

// SkippedRows returns how many population rows referenced regions
// missing from the areas table.
func (idx *Index) SkippedRows() int { return idx.skippedUnknown }

// DroppedDuplicates returns how many duplicate (SA2, band) rows were
// discarded during the build.
func (idx *Index) DroppedDuplicates() int { return idx.droppedDupes }
