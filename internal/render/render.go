// Package render is the result-formatting boundary. All rounding to a
// fixed number of decimals happens here and nowhere earlier, so
// intermediate calculations keep full precision.
package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/statloom/censuskit/internal/query"
)

// Renderer formats analysis results for display.
type Renderer struct {
	Decimals int
	RunID    string
}

// New returns a renderer rounding to the given number of decimals,
// stamped with a fresh run identifier.
func New(decimals int) *Renderer {
	return &Renderer{Decimals: decimals, RunID: uuid.NewString()}
}

// Round rounds half away from zero to the renderer's decimals.
// Rounding is idempotent: rounding an already-rounded value is a
// no-op.
func (r *Renderer) Round(x float64) float64 {
	ratio := math.Pow(10, float64(r.Decimals))
	return math.Round(x*ratio) / ratio
}

func (r *Renderer) num(x float64) string {
	return fmt.Sprintf("%.*f", r.Decimals, r.Round(x))
}

// Profile renders a ProfileResult as a compact markdown report.
func (r *Renderer) Profile(res *query.ProfileResult) string {
	var b strings.Builder
	b.WriteString("[AGE PROFILE]\n")
	fmt.Fprintf(&b, "Run: %s\n\n", r.RunID)

	b.WriteString("[AGE BAND]\n")
	fmt.Fprintf(&b, "Band: %s\n\n", res.Band.Label())

	b.WriteString("[SA3 STATISTICS]\n")
	fmt.Fprintf(&b, "SA3: %s (%d SA2 regions)\n", res.SA3Code, res.SA3Stats.Regions)
	fmt.Fprintf(&b, "Mean: %s\n", r.num(res.SA3Stats.Mean))
	fmt.Fprintf(&b, "Sample stddev: %s\n\n", r.num(res.SA3Stats.StdDev))

	b.WriteString("[STATE MAXIMA]\n")
	for _, state := range sortedKeys(res.StateMaxSA3) {
		m := res.StateMaxSA3[state]
		fmt.Fprintf(&b, "- %s: %s (%s), population %d, proportion %s\n",
			state, m.SA3Name, m.SA3Code, m.Population, r.num(m.Proportion))
	}
	b.WriteString("\n[CORRELATION]\n")
	fmt.Fprintf(&b, "Pearson r: %s\n", r.num(res.Correlation))
	return b.String()
}

// Report renders a ReportResult as a markdown report with one section
// per operation.
func (r *Renderer) Report(res *query.ReportResult) string {
	var b strings.Builder
	b.WriteString("[CENSUS REPORT]\n")
	fmt.Fprintf(&b, "Run: %s\n\n", r.RunID)

	b.WriteString("[OP1 AGE GROUP MAXIMA]\n")
	for _, band := range sortedKeys(res.OP1) {
		m := res.OP1[band]
		fmt.Fprintf(&b, "- %s: state %s | sa3 %s | sa2 %s\n", band, m.State, m.SA3, m.SA2)
	}

	b.WriteString("\n[OP2 LARGEST SA2 PER QUALIFYING SA3]\n")
	for _, state := range sortedKeys(res.OP2) {
		fmt.Fprintf(&b, "- %s:\n", state)
		for _, sa3 := range sortedKeys(res.OP2[state]) {
			l := res.OP2[state][sa3]
			fmt.Fprintf(&b, "  • %s: %s, population %d, stddev %s\n",
				sa3, l.SA2Code, l.Population, r.num(l.StdDev))
		}
	}

	b.WriteString("\n[OP3 MOST SIMILAR SA2]\n")
	for _, sa2 := range sortedKeys(res.OP3) {
		m := res.OP3[sa2]
		fmt.Fprintf(&b, "- %s ~ %s: similarity %s\n", sa2, m.SA2Name, r.num(m.Similarity))
	}
	return b.String()
}

// YAML document mirrors, rounded at this boundary.
type reportDoc struct {
	Run string                           `yaml:"run"`
	OP1 map[string][]string              `yaml:"age_group_maxima"`
	OP2 map[string]map[string]largestDoc `yaml:"largest_sa2"`
	OP3 map[string]matchDoc              `yaml:"most_similar"`
}

type largestDoc struct {
	SA2Code    string  `yaml:"sa2_code"`
	Population int     `yaml:"population"`
	StdDev     float64 `yaml:"stddev"`
}

type matchDoc struct {
	Match      string  `yaml:"match"`
	Similarity float64 `yaml:"similarity"`
}

// ReportYAML renders a ReportResult as a YAML document.
func (r *Renderer) ReportYAML(res *query.ReportResult) ([]byte, error) {
	doc := reportDoc{
		Run: r.RunID,
		OP1: make(map[string][]string, len(res.OP1)),
		OP2: make(map[string]map[string]largestDoc, len(res.OP2)),
		OP3: make(map[string]matchDoc, len(res.OP3)),
	}
	for band, m := range res.OP1 {
		doc.OP1[band] = []string{m.State, m.SA3, m.SA2}
	}
	for state, sa3s := range res.OP2 {
		doc.OP2[state] = make(map[string]largestDoc, len(sa3s))
		for sa3, l := range sa3s {
			doc.OP2[state][sa3] = largestDoc{
				SA2Code:    l.SA2Code,
				Population: l.Population,
				StdDev:     r.Round(l.StdDev),
			}
		}
	}
	for sa2, m := range res.OP3 {
		doc.OP3[sa2] = matchDoc{Match: m.SA2Name, Similarity: r.Round(m.Similarity)}
	}
	return yaml.Marshal(doc)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
