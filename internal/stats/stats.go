// Package stats provides the pure vector statistics used by the census
// query engine. Functions return full float64 precision; rounding for
// display happens at the rendering boundary, never here.
package stats

import (
	"errors"
	"math"
)

var (
	// ErrEmptyInput is returned when a statistic is requested over zero
	// values.
	ErrEmptyInput = errors.New("stats: empty input")
	// ErrDimensionMismatch is returned when paired vectors cannot be
	// compared: unequal lengths, or fewer than two points for
	// correlation.
	ErrDimensionMismatch = errors.New("stats: dimension mismatch")
)

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmptyInput
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs)), nil
}

// SampleStdDev returns the sample (n-1 denominator) standard deviation
// of xs. A single value has no spread: n == 1 yields 0.
func SampleStdDev(xs []float64) (float64, error) {
	n := len(xs)
	if n == 0 {
		return 0, ErrEmptyInput
	}
	if n == 1 {
		return 0, nil
	}
	m, _ := Mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1)), nil
}

// PearsonCorrelation returns the linear correlation of xs and ys in
// [-1, 1]. If either side has zero variance the formula is undefined;
// a constant series carries no linear signal and yields 0.
func PearsonCorrelation(xs, ys []float64) (float64, error) {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0, ErrDimensionMismatch
	}
	mx, _ := Mean(xs)
	my, _ := Mean(ys)
	var num, dx2, dy2 float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		num += dx * dy
		dx2 += dx * dx
		dy2 += dy * dy
	}
	if dx2 == 0 || dy2 == 0 {
		return 0, nil
	}
	return clamp(num / math.Sqrt(dx2*dy2)), nil
}

// CosineSimilarity returns the normalized dot product of xs and ys in
// [-1, 1]. A zero-magnitude vector (a region with no population in any
// band) has no direction and yields similarity 0.
func CosineSimilarity(xs, ys []float64) (float64, error) {
	if len(xs) != len(ys) {
		return 0, ErrDimensionMismatch
	}
	var dot, nx, ny float64
	for i := range xs {
		dot += xs[i] * ys[i]
		nx += xs[i] * xs[i]
		ny += ys[i] * ys[i]
	}
	if nx == 0 || ny == 0 {
		return 0, nil
	}
	return clamp(dot / (math.Sqrt(nx) * math.Sqrt(ny))), nil
}

// clamp pins float drift back into [-1, 1].
func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
