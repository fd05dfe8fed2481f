// Package query composes the census index with the statistics engine
// into the analytical queries: per-SA3 age statistics, per-state
// maxima, the three report operations and cross-region correlation.
// Every query is a pure read over the immutable index.
package query

import (
	"fmt"

	"github.com/statloom/censuskit/internal/census"
	"github.com/statloom/censuskit/internal/stats"
)

// Defaults for the eligibility knobs.
const (
	DefaultPopulationThreshold = 150000
	DefaultMinSimilarityPeers  = 15
)

// RegionNotFoundError reports an SA2 or SA3 code passed by the caller
// that the index does not contain.
type RegionNotFoundError struct{ Code string }

func (e *RegionNotFoundError) Error() string {
	return fmt.Sprintf("region %q not found", e.Code)
}

// Options tunes the query engine.
type Options struct {
	// PopulationThreshold is the minimum all-ages population for a
	// state or SA3 to be a candidate in the maxima queries. Regions
	// below it are excluded from candidacy, not from the dataset.
	PopulationThreshold int
	// MinSimilarityPeers is the minimum number of member SA2s an SA3
	// needs before similarity pairing runs over it.
	MinSimilarityPeers int
}

// Engine answers aggregate queries over a built index.
type Engine struct {
	idx       *census.Index
	threshold int
	minPeers  int
}

// NewEngine wraps an index. Zero option fields take the defaults.
func NewEngine(idx *census.Index, opt Options) *Engine {
	e := &Engine{
		idx:       idx,
		threshold: opt.PopulationThreshold,
		minPeers:  opt.MinSimilarityPeers,
	}
	if e.threshold == 0 {
		e.threshold = DefaultPopulationThreshold
	}
	if e.minPeers == 0 {
		e.minPeers = DefaultMinSimilarityPeers
	}
	return e
}

// SA3Stats is the per-SA3 summary for one age band.
type SA3Stats struct {
	Band    census.AgeBand
	Mean    float64
	StdDev  float64
	Regions int // member SA2s contributing
}

// SA3StatsForAge resolves the band containing age and computes the
// mean and sample standard deviation of the per-SA2 counts in that
// band across the SA3's members.
func (e *Engine) SA3StatsForAge(sa3Code string, age int) (SA3Stats, error) {
	band, err := census.ResolveBand(age, e.idx.Bands())
	if err != nil {
		return SA3Stats{}, err
	}
	if !e.idx.HasSA3(sa3Code) {
		return SA3Stats{}, &RegionNotFoundError{Code: sa3Code}
	}
	members := e.idx.SA2sInSA3(sa3Code)
	counts := make([]float64, 0, len(members))
	for _, sa2 := range members {
		counts = append(counts, float64(e.idx.Count(sa2, band)))
	}
	mean, err := stats.Mean(counts)
	if err != nil {
		return SA3Stats{}, fmt.Errorf("sa3 %s: %w", sa3Code, err)
	}
	sd, err := stats.SampleStdDev(counts)
	if err != nil {
		return SA3Stats{}, fmt.Errorf("sa3 %s: %w", sa3Code, err)
	}
	return SA3Stats{Band: band, Mean: mean, StdDev: sd, Regions: len(counts)}, nil
}

// StateMax is a state's winning SA3 for one age band.
type StateMax struct {
	SA3Code    string
	SA3Name    string
	Population int     // the SA3's population in the band
	Proportion float64 // of the state's total for the band
}

// StateMaxSA3ForAge finds, for every state, the SA3 with the highest
// population in the band containing age. Ties keep the
// first-encountered SA3 in input order.
func (e *Engine) StateMaxSA3ForAge(age int) (map[string]StateMax, error) {
	band, err := census.ResolveBand(age, e.idx.Bands())
	if err != nil {
		return nil, err
	}
	out := make(map[string]StateMax, len(e.idx.States()))
	for _, state := range e.idx.States() {
		var (
			best    string
			bestPop = -1
		)
		for _, sa3 := range e.idx.SA3sInState(state) {
			if pop := e.idx.SA3BandTotal(sa3, band); pop > bestPop {
				best, bestPop = sa3, pop
			}
		}
		if best == "" {
			continue
		}
		var proportion float64
		if stateTotal := e.idx.StateBandTotal(state, band); stateTotal > 0 {
			proportion = float64(bestPop) / float64(stateTotal)
		}
		out[state] = StateMax{
			SA3Code:    best,
			SA3Name:    e.idx.SA3Name(best),
			Population: bestPop,
			Proportion: proportion,
		}
	}
	return out, nil
}

// Correlation builds the two SA2s' age-distribution vectors over the
// shared band ordering and returns their Pearson correlation.
func (e *Engine) Correlation(sa2CodeA, sa2CodeB string) (float64, error) {
	for _, code := range []string{sa2CodeA, sa2CodeB} {
		if !e.idx.HasSA2(code) {
			return 0, &RegionNotFoundError{Code: code}
		}
	}
	r, err := stats.PearsonCorrelation(e.idx.Distribution(sa2CodeA), e.idx.Distribution(sa2CodeB))
	if err != nil {
		return 0, fmt.Errorf("correlate %s with %s: %w", sa2CodeA, sa2CodeB, err)
	}
	return r, nil
}

// LevelMax names the winning region at each hierarchy level for one
// age band.
type LevelMax struct {
	State string
	SA3   string
	SA2   string
}

// AgeGroupMaxima (OP1) finds, for every age band, the region with the
// highest population in that band at each level. States and SA3s must
// meet the population threshold to be candidates; SA2s are never
// filtered. Ties keep the first-encountered region.
func (e *Engine) AgeGroupMaxima() map[string]LevelMax {
	out := make(map[string]LevelMax, len(e.idx.Bands()))
	for _, band := range e.idx.Bands() {
		var m LevelMax
		bestState, bestSA3, bestSA2 := -1, -1, -1
		for _, state := range e.idx.States() {
			eligibleState := e.idx.StateTotal(state) >= e.threshold
			if eligibleState {
				if pop := e.idx.StateBandTotal(state, band); pop > bestState {
					bestState, m.State = pop, state
				}
			}
			for _, sa3 := range e.idx.SA3sInState(state) {
				if e.idx.SA3Total(sa3) >= e.threshold {
					if pop := e.idx.SA3BandTotal(sa3, band); pop > bestSA3 {
						bestSA3, m.SA3 = pop, e.idx.SA3Name(sa3)
					}
				}
				for _, sa2 := range e.idx.SA2sInSA3(sa3) {
					if pop := e.idx.Count(sa2, band); pop > bestSA2 {
						bestSA2, m.SA2 = pop, e.idx.SA2Name(sa2)
					}
				}
			}
		}
		out[band.Label()] = m
	}
	return out
}

// LargestSA2 is the biggest SA2 inside one qualifying SA3.
type LargestSA2 struct {
	SA2Code    string
	Population int
	StdDev     float64 // sample stddev of the SA2's age distribution
}

// LargestQualifyingSA2s (OP2) restricts to SA3s meeting the population
// threshold and reports each one's largest SA2, keyed by state code
// (state name when the table variant carries no codes) then SA3 code.
func (e *Engine) LargestQualifyingSA2s() map[string]map[string]LargestSA2 {
	out := make(map[string]map[string]LargestSA2)
	for _, state := range e.idx.States() {
		stateKey := e.idx.StateCode(state)
		if stateKey == "" {
			stateKey = state
		}
		for _, sa3 := range e.idx.SA3sInState(state) {
			if e.idx.SA3Total(sa3) < e.threshold {
				continue
			}
			var (
				best    string
				bestPop = -1
			)
			for _, sa2 := range e.idx.SA2sInSA3(sa3) {
				if pop := e.idx.SA2Total(sa2); pop > bestPop {
					best, bestPop = sa2, pop
				}
			}
			if best == "" {
				continue
			}
			// Edge policies live in the stats package; a single-band
			// distribution yields stddev 0, not an error.
			sd, err := stats.SampleStdDev(e.idx.Distribution(best))
			if err != nil {
				continue
			}
			if out[stateKey] == nil {
				out[stateKey] = make(map[string]LargestSA2)
			}
			out[stateKey][sa3] = LargestSA2{SA2Code: best, Population: bestPop, StdDev: sd}
		}
	}
	return out
}

// BestMatch is the most similar peer for one SA2.
type BestMatch struct {
	SA2Name    string
	Similarity float64
}

// MostSimilarSA2s (OP3) finds, for every SA2 inside an SA3 with at
// least MinSimilarityPeers members, its best cosine match among the
// other members, keyed by SA2 name. Ties keep the first-encountered
// peer.
func (e *Engine) MostSimilarSA2s() map[string]BestMatch {
	out := make(map[string]BestMatch)
	for _, state := range e.idx.States() {
		for _, sa3 := range e.idx.SA3sInState(state) {
			members := e.idx.SA2sInSA3(sa3)
			if len(members) < e.minPeers {
				continue
			}
			vecs := make([][]float64, len(members))
			for i, sa2 := range members {
				vecs[i] = e.idx.Distribution(sa2)
			}
			for i, sa2 := range members {
				var (
					best    string
					bestSim = -2.0 // below the cosine floor
				)
				for j, peer := range members {
					if i == j {
						continue
					}
					sim, err := stats.CosineSimilarity(vecs[i], vecs[j])
					if err != nil {
						continue
					}
					if sim > bestSim {
						best, bestSim = peer, sim
					}
				}
				if best == "" {
					continue
				}
				out[e.idx.SA2Name(sa2)] = BestMatch{
					SA2Name:    e.idx.SA2Name(best),
					Similarity: bestSim,
				}
			}
		}
	}
	return out
}
