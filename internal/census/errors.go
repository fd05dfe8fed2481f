package census

import "fmt"

// InvalidAgeError reports a negative target age.
type InvalidAgeError struct{ Age int }

func (e *InvalidAgeError) Error() string {
	return fmt.Sprintf("invalid age %d: must be a non-negative integer", e.Age)
}

// AgeOutOfRangeError reports an age that no band in the table covers.
type AgeOutOfRangeError struct{ Age int }

func (e *AgeOutOfRangeError) Error() string {
	return fmt.Sprintf("age %d is outside every age band", e.Age)
}

// UnknownRegionError reports a population row whose SA2 code is absent
// from the areas table. In the default (non-strict) mode such rows are
// skipped and counted rather than failing the run.
type UnknownRegionError struct{ SA2Code string }

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("population row references unknown SA2 code %q", e.SA2Code)
}
