// internal/results/stats.go
// Package: results
package results

import (
	"math"

	"golang.org/x/perf/benchmath"
	"gonum.org/v1/gonum/stat"
)

// confidence is the level of the median interval reported per group.
const confidence = 0.95

// present returns a copy of values without NaNs.
func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// meanStd returns the sample mean and sample standard deviation of the
// non-missing values. The mean is NaN without values and the standard
// deviation is NaN with fewer than two.
func meanStd(values []float64) (mean, std float64) {
	vals := present(values)
	switch len(vals) {
	case 0:
		return math.NaN(), math.NaN()
	case 1:
		return vals[0], math.NaN()
	}
	return stat.MeanStdDev(vals, nil)
}

// medianInterval returns the median of the non-missing values with a
// distribution-free confidence interval around it.
func medianInterval(values []float64) (center, lo, hi float64) {
	vals := present(values)
	if len(vals) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	sample := benchmath.NewSample(vals, &benchmath.DefaultThresholds)
	sum := benchmath.AssumeNothing.Summary(sample, confidence)
	return sum.Center, sum.Lo, sum.Hi
}

// pValue compares two groups with a Mann-Whitney U test.
func pValue(a, b []float64) float64 {
	va, vb := present(a), present(b)
	if len(va) == 0 || len(vb) == 0 {
		return math.NaN()
	}
	cmp := benchmath.AssumeNothing.Compare(
		benchmath.NewSample(va, &benchmath.DefaultThresholds),
		benchmath.NewSample(vb, &benchmath.DefaultThresholds),
	)
	return cmp.P
}

// percentDelta is the change of v relative to base in percent.
func percentDelta(v, base float64) float64 {
	if math.IsNaN(v) || math.IsNaN(base) || base == 0 {
		return math.NaN()
	}
	return (v - base) / base * 100
}
