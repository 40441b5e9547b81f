package analysis

import (
	"math"
	"sort"

	"digihealth/domain/core"
)

// Percentile returns the p-th quantile (p in [0, 1]) of values using linear
// interpolation between order statistics: with rank = p*(n-1), the result lies
// between the sorted values at floor(rank) and ceil(rank). This is the "linear"
// method (Hyndman-Fan type 7) and differs from nearest-rank and from
// montanaflynn/stats.Percentile, so it is computed here explicitly.
//
// values is not modified.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return math.NaN(), core.ErrEmptyDataset
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return math.NaN(), core.ErrInvalidPercentile
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p * float64(len(sorted)-1)
	lo := math.Floor(rank)
	hi := math.Ceil(rank)
	if lo == hi {
		return sorted[int(lo)], nil
	}
	return lerp(sorted[int(lo)], sorted[int(hi)], rank-lo), nil
}

// Median is Percentile(values, 0.5).
func Median(values []float64) (float64, error) {
	return Percentile(values, 0.5)
}

// lerp matches numpy's formulation, which switches to interpolating from b
// when t >= 0.5 so that results are exact at both ends.
func lerp(a, b, t float64) float64 {
	diff := b - a
	if t >= 0.5 {
		return b - diff*(1-t)
	}
	return a + diff*t
}
