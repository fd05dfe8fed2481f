// Package loader reads the two delimited census tables into typed
// records. It owns all text handling (trimming, case folding of
// grouping names, blank-count normalization) so the query engine
// never sees a raw row.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/statloom/censuskit/internal/census"
)

// Options controls table reading.
type Options struct {
	// Delimiter for the tables. 0 means comma.
	Delimiter rune
	// Logger receives per-row skip diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// Area table column synonyms across the two published variants
// (state_name/... and S_T CODE/S_T NAME/...). Header names are matched
// after stripping everything but letters and digits.
var areaFields = map[string]string{
	"statename": "state_name",
	"stname":    "state_name",
	"statecode": "state_code",
	"stcode":    "state_code",
	"sa3code":   "sa3_code",
	"sa3name":   "sa3_name",
	"sa2code":   "sa2_code",
	"sa2name":   "sa2_name",
}

// LoadAreas reads the areas table. Rows missing an SA2 or SA3 code are
// skipped; duplicate SA2 codes keep the first row.
func LoadAreas(path string, opt Options) ([]census.AreaRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open areas table: %w", err)
	}
	defer f.Close()
	return readAreas(f, opt)
}

func readAreas(r io.Reader, opt Options) ([]census.AreaRecord, error) {
	cr := newReader(r, opt)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("areas table: empty file")
		}
		return nil, fmt.Errorf("areas table: read header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		if name, ok := areaFields[canonField(h)]; ok {
			if _, dup := cols[name]; !dup {
				cols[name] = i
			}
		}
	}
	for _, req := range []string{"state_name", "sa3_code", "sa3_name", "sa2_code", "sa2_name"} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("areas table: missing column %s", req)
		}
	}

	var (
		records []census.AreaRecord
		seen    = map[string]bool{}
		skipped int
	)
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("areas table: row %d: %w", row, err)
		}
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		a := census.AreaRecord{
			SA2Code:   field("sa2_code"),
			SA2Name:   field("sa2_name"),
			SA3Code:   field("sa3_code"),
			SA3Name:   field("sa3_name"),
			StateCode: field("state_code"),
			StateName: field("state_name"),
		}
		if a.SA2Code == "" || a.SA3Code == "" {
			skipped++
			continue
		}
		if seen[a.SA2Code] {
			skipped++
			if opt.Logger != nil {
				opt.Logger.Warn("dropping duplicate area row", zap.String("sa2_code", a.SA2Code))
			}
			continue
		}
		seen[a.SA2Code] = true
		records = append(records, a)
	}
	if opt.Logger != nil {
		opt.Logger.Info("areas table loaded",
			zap.Int("rows", len(records)), zap.Int("skipped", skipped))
	}
	return records, nil
}

// LoadPopulations reads the wide-form populations table: an SA2 code
// column, an SA2 name column, then one column per age band. It returns
// one record per (SA2, band) cell plus the band table in ascending
// order. Blank counts become 0; negative or non-numeric counts skip
// the cell; a duplicate (SA2, band) pair keeps the first value.
func LoadPopulations(path string, opt Options) ([]census.PopulationRecord, []census.AgeBand, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open populations table: %w", err)
	}
	defer f.Close()
	return readPopulations(f, opt)
}

func readPopulations(r io.Reader, opt Options) ([]census.PopulationRecord, []census.AgeBand, error) {
	cr := newReader(r, opt)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("populations table: empty file")
		}
		return nil, nil, fmt.Errorf("populations table: read header: %w", err)
	}
	if len(header) < 3 {
		return nil, nil, fmt.Errorf("populations table: expected code, name and at least one band column")
	}

	// Band columns start after the code and name columns.
	type bandCol struct {
		idx  int
		band census.AgeBand
	}
	var bandCols []bandCol
	for i := 2; i < len(header); i++ {
		band, ok := census.ParseBandLabel(header[i])
		if !ok {
			if opt.Logger != nil {
				opt.Logger.Warn("ignoring non-band column", zap.String("header", header[i]))
			}
			continue
		}
		bandCols = append(bandCols, bandCol{idx: i, band: band})
	}
	if len(bandCols) == 0 {
		return nil, nil, fmt.Errorf("populations table: no age band columns in header")
	}
	for i := 1; i < len(bandCols); i++ {
		if bandCols[i].band.Lower <= bandCols[i-1].band.Lower {
			return nil, nil, fmt.Errorf("populations table: band columns not in ascending order")
		}
	}

	var (
		records []census.PopulationRecord
		seen    = map[string]bool{}
		skipped int
		dupes   int
	)
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("populations table: row %d: %w", row, err)
		}
		sa2 := strings.TrimSpace(rec[0])
		if sa2 == "" {
			skipped++
			continue
		}
		for _, bc := range bandCols {
			var raw string
			if bc.idx < len(rec) {
				raw = strings.TrimSpace(rec[bc.idx])
			}
			count := 0
			if raw != "" {
				count, err = strconv.Atoi(raw)
				if err != nil || count < 0 {
					// Malformed cell: recover locally, keep the row's other bands.
					skipped++
					if opt.Logger != nil {
						opt.Logger.Warn("skipping malformed count",
							zap.String("sa2_code", sa2),
							zap.String("band", bc.band.Label()),
							zap.String("value", raw))
					}
					continue
				}
			}
			key := sa2 + "\x00" + bc.band.Label()
			if seen[key] {
				dupes++
				if opt.Logger != nil {
					opt.Logger.Warn("dropping duplicate population cell",
						zap.String("sa2_code", sa2), zap.String("band", bc.band.Label()))
				}
				continue
			}
			seen[key] = true
			records = append(records, census.PopulationRecord{
				SA2Code: sa2,
				Band:    bc.band,
				Count:   count,
			})
		}
	}

	bands := make([]census.AgeBand, len(bandCols))
	for i, bc := range bandCols {
		bands[i] = bc.band
	}
	if opt.Logger != nil {
		opt.Logger.Info("populations table loaded",
			zap.Int("records", len(records)),
			zap.Int("bands", len(bands)),
			zap.Int("skipped_cells", skipped),
			zap.Int("dropped_duplicates", dupes))
	}
	return records, bands, nil
}

func newReader(r io.Reader, opt Options) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}
	return cr
}

// canonField strips a header down to letters and digits for synonym
// matching ("S_T NAME" and "state_name" both resolve).
func canonField(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
