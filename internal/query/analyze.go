package query

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/statloom/censuskit/internal/census"
)

// ProfileRequest is the Project 1 entry contract: a target age and two
// SA2 regions to compare.
type ProfileRequest struct {
	TargetAge int
	SA2CodeA  string
	SA2CodeB  string
}

// ProfileResult carries the four profile outputs. Values are full
// precision; rounding happens at the rendering boundary.
type ProfileResult struct {
	Band        census.AgeBand
	SA3Code     string // the SA3 containing SA2CodeA
	SA3Stats    SA3Stats
	StateMaxSA3 map[string]StateMax
	Correlation float64
}

// AnalyzeProfile resolves the target age's band, computes the band
// statistics for the SA3 containing the first SA2, the per-state
// maximum SA3s, and the correlation between the two SA2s' age
// distributions.
func (e *Engine) AnalyzeProfile(req ProfileRequest) (*ProfileResult, error) {
	band, err := census.ResolveBand(req.TargetAge, e.idx.Bands())
	if err != nil {
		return nil, err
	}
	sa3, ok := e.idx.SA3ForSA2(req.SA2CodeA)
	if !ok {
		return nil, &RegionNotFoundError{Code: req.SA2CodeA}
	}
	sa3Stats, err := e.SA3StatsForAge(sa3, req.TargetAge)
	if err != nil {
		return nil, err
	}
	stateMax, err := e.StateMaxSA3ForAge(req.TargetAge)
	if err != nil {
		return nil, err
	}
	corr, err := e.Correlation(req.SA2CodeA, req.SA2CodeB)
	if err != nil {
		return nil, err
	}
	return &ProfileResult{
		Band:        band,
		SA3Code:     sa3,
		SA3Stats:    sa3Stats,
		StateMaxSA3: stateMax,
		Correlation: corr,
	}, nil
}

// ReportResult carries the three report operations.
type ReportResult struct {
	OP1 map[string]LevelMax
	OP2 map[string]map[string]LargestSA2
	OP3 map[string]BestMatch
}

// AnalyzeReport is the Project 2 entry contract. The three operations
// are independent reads over the immutable index, so they run
// concurrently; each writes a distinct result field.
func (e *Engine) AnalyzeReport(ctx context.Context) (*ReportResult, error) {
	res := &ReportResult{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res.OP1 = e.AgeGroupMaxima()
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res.OP2 = e.LargestQualifyingSA2s()
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res.OP3 = e.MostSimilarSA2s()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
