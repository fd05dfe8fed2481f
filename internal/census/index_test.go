package census

import (
	"errors"
	"testing"
)

var testBands = []AgeBand{
	{Lower: 0, Upper: 4},
	{Lower: 5, Upper: 9},
	{Lower: 10, Upper: 14},
	{Lower: 15, Upper: 19},
}

func testAreas() []AreaRecord {
	return []AreaRecord{
		{SA2Code: "401011001", SA2Name: "Adelaide Hills", SA3Code: "40101", SA3Name: "Inner City", StateName: "New South Wales"},
		{SA2Code: "401011002", SA2Name: "Glenside", SA3Code: "40101", SA3Name: "Inner City", StateName: "new south wales"},
		{SA2Code: "401021003", SA2Name: "Burnside", SA3Code: "40102", SA3Name: "Outer Ring", StateName: "NEW SOUTH WALES"},
		{SA2Code: "206011001", SA2Name: "Brunswick", SA3Code: "20601", SA3Name: "Moreland", StateCode: "2", StateName: "Victoria"},
	}
}

func testPops() []PopulationRecord {
	recs := []PopulationRecord{}
	dists := map[string][]int{
		"401011001": {100, 150, 130, 100},
		"401011002": {80, 90, 110, 150},
		"401021003": {200, 180, 170, 160},
		"206011001": {50, 60, 70, 80},
	}
	for _, code := range []string{"401011001", "401011002", "401021003", "206011001"} {
		for i, n := range dists[code] {
			recs = append(recs, PopulationRecord{SA2Code: code, Band: testBands[i], Count: n})
		}
	}
	return recs
}

func mustBuild(t *testing.T, areas []AreaRecord, pops []PopulationRecord, opt IndexOptions) *Index {
	t.Helper()
	idx, err := BuildIndex(areas, pops, testBands, opt)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	return idx
}

func TestBuildIndexNormalizesStateCase(t *testing.T) {
	idx := mustBuild(t, testAreas(), testPops(), IndexOptions{})
	states := idx.States()
	if len(states) != 2 {
		t.Fatalf("states = %v, want 2 entries", states)
	}
	if states[0] != "new south wales" || states[1] != "victoria" {
		t.Fatalf("states = %v, want lower-cased first-encountered order", states)
	}
	if got := idx.SA3sInState("new south wales"); len(got) != 2 {
		t.Fatalf("nsw SA3s = %v, want both SA3 codes under one state key", got)
	}
}

func TestIndexMembership(t *testing.T) {
	idx := mustBuild(t, testAreas(), testPops(), IndexOptions{})
	sa3, ok := idx.SA3ForSA2("401011001")
	if !ok || sa3 != "40101" {
		t.Fatalf("SA3ForSA2 = %q, %v", sa3, ok)
	}
	state, ok := idx.StateForSA3("40102")
	if !ok || state != "new south wales" {
		t.Fatalf("StateForSA3 = %q, %v", state, ok)
	}
	if got := idx.SA2sInSA3("40101"); len(got) != 2 || got[0] != "401011001" || got[1] != "401011002" {
		t.Fatalf("SA2sInSA3 = %v, want input order", got)
	}
	if idx.StateCode("victoria") != "2" {
		t.Fatalf("StateCode(victoria) = %q, want 2", idx.StateCode("victoria"))
	}
	if idx.SA2Name("401011002") != "glenside" {
		t.Fatalf("SA2Name = %q, want lower-cased name", idx.SA2Name("401011002"))
	}
}

func TestHierarchicalConsistency(t *testing.T) {
	// The SA3's total for a band equals the sum of its member SA2s.
	idx := mustBuild(t, testAreas(), testPops(), IndexOptions{})
	for _, sa3 := range []string{"40101", "40102", "20601"} {
		for _, band := range testBands {
			var sum int
			for _, sa2 := range idx.SA2sInSA3(sa3) {
				sum += idx.Count(sa2, band)
			}
			if got := idx.SA3BandTotal(sa3, band); got != sum {
				t.Fatalf("SA3 %s band %s total = %d, want %d", sa3, band.Label(), got, sum)
			}
		}
	}
	var nswTotal int
	for _, sa3 := range idx.SA3sInState("new south wales") {
		nswTotal += idx.SA3Total(sa3)
	}
	if got := idx.StateTotal("new south wales"); got != nswTotal {
		t.Fatalf("state total = %d, want %d", got, nswTotal)
	}
}

func TestIndexRowOrderDoesNotChangeTotals(t *testing.T) {
	pops := testPops()
	reversed := make([]PopulationRecord, len(pops))
	for i, p := range pops {
		reversed[len(pops)-1-i] = p
	}
	a := mustBuild(t, testAreas(), pops, IndexOptions{})
	b := mustBuild(t, testAreas(), reversed, IndexOptions{})
	for _, sa3 := range []string{"40101", "40102", "20601"} {
		if a.SA3Total(sa3) != b.SA3Total(sa3) {
			t.Fatalf("SA3 %s totals differ by row order: %d vs %d", sa3, a.SA3Total(sa3), b.SA3Total(sa3))
		}
	}
}

func TestUnknownRegionSkippedAndCounted(t *testing.T) {
	pops := append(testPops(), PopulationRecord{SA2Code: "999999999", Band: testBands[0], Count: 42})
	idx := mustBuild(t, testAreas(), pops, IndexOptions{})
	if idx.SkippedRows() != 1 {
		t.Fatalf("SkippedRows = %d, want 1", idx.SkippedRows())
	}
	if idx.SA2Total("999999999") != 0 {
		t.Fatalf("unknown region leaked into aggregates")
	}
}

func TestUnknownRegionStrict(t *testing.T) {
	pops := append(testPops(), PopulationRecord{SA2Code: "999999999", Band: testBands[0], Count: 42})
	_, err := BuildIndex(testAreas(), pops, testBands, IndexOptions{Strict: true})
	var unknown *UnknownRegionError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownRegionError", err)
	}
	if unknown.SA2Code != "999999999" {
		t.Fatalf("UnknownRegionError.SA2Code = %q", unknown.SA2Code)
	}
}

func TestDuplicateRecordDroppedNotSummed(t *testing.T) {
	pops := append(testPops(), PopulationRecord{SA2Code: "401011001", Band: testBands[0], Count: 9999})
	idx := mustBuild(t, testAreas(), pops, IndexOptions{})
	if got := idx.Count("401011001", testBands[0]); got != 100 {
		t.Fatalf("duplicate changed count to %d, want first value 100", got)
	}
	if idx.DroppedDuplicates() != 1 {
		t.Fatalf("DroppedDuplicates = %d, want 1", idx.DroppedDuplicates())
	}
}

func TestDuplicateAreaKeepsFirst(t *testing.T) {
	areas := append(testAreas(), AreaRecord{
		SA2Code: "401011001", SA2Name: "Shadow", SA3Code: "40102", SA3Name: "Outer Ring", StateName: "New South Wales",
	})
	idx := mustBuild(t, areas, testPops(), IndexOptions{})
	if sa3, _ := idx.SA3ForSA2("401011001"); sa3 != "40101" {
		t.Fatalf("duplicate area row rebound SA2 to %q", sa3)
	}
}

func TestDistributionVector(t *testing.T) {
	idx := mustBuild(t, testAreas(), testPops(), IndexOptions{})
	vec := idx.Distribution("401011001")
	want := []float64{100, 150, 130, 100}
	if len(vec) != len(want) {
		t.Fatalf("vector length = %d, want %d", len(vec), len(want))
	}
	for i := range want {
		if vec[i] != want[i] {
			t.Fatalf("vec[%d] = %f, want %f", i, vec[i], want[i])
		}
	}
	// A region with no population rows still yields a full-length zero vector.
	areas := append(testAreas(), AreaRecord{SA2Code: "401011099", SA2Name: "Empty", SA3Code: "40101", SA3Name: "Inner City", StateName: "New South Wales"})
	idx = mustBuild(t, areas, testPops(), IndexOptions{})
	for i, v := range idx.Distribution("401011099") {
		if v != 0 {
			t.Fatalf("empty region vec[%d] = %f, want 0", i, v)
		}
	}
}
