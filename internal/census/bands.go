package census

import (
	"strconv"
	"strings"
)

// DefaultBands returns the standard ABS table: 5-year bands from 0-4
// through 80-84, then an open 85+ band.
func DefaultBands() []AgeBand {
	bands := make([]AgeBand, 0, 18)
	for lower := 0; lower < 85; lower += 5 {
		bands = append(bands, AgeBand{Lower: lower, Upper: lower + 4})
	}
	return append(bands, AgeBand{Lower: 85, Unbounded: true})
}

// ResolveBand finds the unique band containing age. Bands must be
// sorted ascending by Lower and non-overlapping, so a binary search on
// Lower is sufficient.
func ResolveBand(age int, bands []AgeBand) (AgeBand, error) {
	if age < 0 {
		return AgeBand{}, &InvalidAgeError{Age: age}
	}
	lo, hi := 0, len(bands)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		b := bands[mid]
		if b.Contains(age) {
			return b, nil
		}
		if age < b.Lower {
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return AgeBand{}, &AgeOutOfRangeError{Age: age}
}

// ParseBandLabel parses population header labels such as "0-4",
// "Age 25-29", "85+" or "85 and over". The second return is false for
// headers that are not age bands.
func ParseBandLabel(label string) (AgeBand, bool) {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.TrimPrefix(s, "age ")
	if t, ok := strings.CutSuffix(s, " and over"); ok {
		s = t + "+"
	}
	if t, ok := strings.CutSuffix(s, "+"); ok {
		lower, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil || lower < 0 {
			return AgeBand{}, false
		}
		return AgeBand{Lower: lower, Unbounded: true}, true
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return AgeBand{}, false
	}
	lower, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || lower < 0 {
		return AgeBand{}, false
	}
	upper, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || upper < lower {
		return AgeBand{}, false
	}
	return AgeBand{Lower: lower, Upper: upper}, true
}
