package census

import (
	"errors"
	"testing"
)

func TestDefaultBandsCoverEveryAgeExactlyOnce(t *testing.T) {
	bands := DefaultBands()
	for age := 0; age <= 130; age++ {
		var hits int
		for _, b := range bands {
			if b.Contains(age) {
				hits++
			}
		}
		if hits != 1 {
			t.Fatalf("age %d matched %d bands, want exactly 1", age, hits)
		}
		got, err := ResolveBand(age, bands)
		if err != nil {
			t.Fatalf("ResolveBand(%d): %v", age, err)
		}
		if !got.Contains(age) {
			t.Fatalf("ResolveBand(%d) = %s, does not contain the age", age, got.Label())
		}
	}
}

func TestResolveBandKnownAges(t *testing.T) {
	bands := DefaultBands()
	cases := []struct {
		age  int
		want string
	}{
		{0, "0-4"},
		{4, "0-4"},
		{5, "5-9"},
		{18, "15-19"},
		{84, "80-84"},
		{85, "85+"},
		{112, "85+"},
	}
	for _, c := range cases {
		got, err := ResolveBand(c.age, bands)
		if err != nil {
			t.Fatalf("ResolveBand(%d): %v", c.age, err)
		}
		if got.Label() != c.want {
			t.Fatalf("ResolveBand(%d) = %s, want %s", c.age, got.Label(), c.want)
		}
	}
}

func TestResolveBandNegativeAge(t *testing.T) {
	var invalidAge *InvalidAgeError
	_, err := ResolveBand(-1, DefaultBands())
	if !errors.As(err, &invalidAge) {
		t.Fatalf("err = %v, want InvalidAgeError", err)
	}
	if invalidAge.Age != -1 {
		t.Fatalf("InvalidAgeError.Age = %d, want -1", invalidAge.Age)
	}
}

func TestResolveBandNoMatch(t *testing.T) {
	var outOfRange *AgeOutOfRangeError
	if _, err := ResolveBand(10, nil); !errors.As(err, &outOfRange) {
		t.Fatalf("empty table err = %v, want AgeOutOfRangeError", err)
	}
	// Bounded table with a gap above it.
	bounded := []AgeBand{{Lower: 0, Upper: 4}, {Lower: 5, Upper: 9}}
	if _, err := ResolveBand(10, bounded); !errors.As(err, &outOfRange) {
		t.Fatalf("gap err = %v, want AgeOutOfRangeError", err)
	}
}

func TestParseBandLabel(t *testing.T) {
	cases := []struct {
		in   string
		want AgeBand
		ok   bool
	}{
		{"0-4", AgeBand{Lower: 0, Upper: 4}, true},
		{" 15-19 ", AgeBand{Lower: 15, Upper: 19}, true},
		{"Age 25-29", AgeBand{Lower: 25, Upper: 29}, true},
		{"85+", AgeBand{Lower: 85, Unbounded: true}, true},
		{"85 and over", AgeBand{Lower: 85, Unbounded: true}, true},
		{"Age 85 and over", AgeBand{Lower: 85, Unbounded: true}, true},
		{"Total", AgeBand{}, false},
		{"sa2 code", AgeBand{}, false},
		{"9-5", AgeBand{}, false},
		{"", AgeBand{}, false},
	}
	for _, c := range cases {
		got, ok := ParseBandLabel(c.in)
		if ok != c.ok {
			t.Fatalf("ParseBandLabel(%q) ok = %v, want %v", c.in, ok, c.ok)
		}
		if ok && got != c.want {
			t.Fatalf("ParseBandLabel(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestBandLabelRoundTrip(t *testing.T) {
	for _, b := range DefaultBands() {
		got, ok := ParseBandLabel(b.Label())
		if !ok || got != b {
			t.Fatalf("round trip of %s = %+v, ok=%v", b.Label(), got, ok)
		}
	}
}
