package analysis

import (
	"fmt"
	"math"

	"digihealth/domain/behavior"
	"digihealth/domain/core"

	"github.com/montanaflynn/stats"
)

// CompareCohorts computes per-cohort means of stress, anxiety and mood and
// Cohen's d for stress.
//
// Undefined values are NaN, never an error: an empty cohort has NaN means, a
// cohort with fewer than two members has NaN sample standard deviation, and
// Cohen's d is NaN whenever the pooled standard deviation is NaN or zero. Each
// case is recorded in ComparisonResult.Issues.
func CompareCohorts(high, low behavior.Cohort) behavior.ComparisonResult {
	result := behavior.ComparisonResult{
		HighRiskSize: high.Size(),
		LowRiskSize:  low.Size(),
	}

	for _, c := range []behavior.Cohort{high, low} {
		if c.IsEmpty() {
			result.Issues = append(result.Issues, core.NewEmptyCohortError(string(c.Name)))
		}
	}

	result.Stress = compareMetric(high, low, behavior.ColumnStress)
	result.Anxiety = compareMetric(high, low, behavior.ColumnAnxiety)
	result.Mood = compareMetric(high, low, behavior.ColumnMood)

	result.HighRiskStressStd = sampleStd(high.Values(behavior.ColumnStress))
	result.LowRiskStressStd = sampleStd(low.Values(behavior.ColumnStress))
	result.PooledStressStd = PooledStd(result.HighRiskStressStd, result.LowRiskStressStd)

	d, err := CohensD(result.Stress.Difference, result.PooledStressStd)
	if err != nil {
		result.Issues = append(result.Issues, err)
	}
	result.CohensD = d
	result.Magnitude = ClassifyEffect(d)

	return result
}

func compareMetric(high, low behavior.Cohort, col behavior.Column) behavior.MetricComparison {
	hm := mean(high.Values(col))
	lm := mean(low.Values(col))
	return behavior.MetricComparison{
		Metric:       col,
		HighRiskMean: hm,
		LowRiskMean:  lm,
		Difference:   hm - lm,
	}
}

// mean is NaN for an empty sample.
func mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return math.NaN()
	}
	return m
}

// sampleStd uses the n-1 divisor and is NaN below two observations.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	sd, err := stats.StandardDeviationSample(values)
	if err != nil {
		return math.NaN()
	}
	return sd
}

// PooledStd is the root mean square of two standard deviations.
func PooledStd(a, b float64) float64 {
	return math.Sqrt((a*a + b*b) / 2)
}

// CohensD standardizes a mean difference. It returns NaN and an error wrapping
// core.ErrUndefinedEffectSize when the result would not be a finite number.
func CohensD(difference, pooledStd float64) (float64, error) {
	switch {
	case math.IsNaN(difference):
		return math.NaN(), core.NewUndefinedEffectSizeError("mean difference is undefined")
	case math.IsNaN(pooledStd):
		return math.NaN(), core.NewUndefinedEffectSizeError("a cohort has fewer than 2 members")
	case pooledStd == 0:
		return math.NaN(), core.NewUndefinedEffectSizeError("pooled standard deviation is zero")
	}
	d := difference / pooledStd
	if math.IsInf(d, 0) {
		return math.NaN(), core.NewUndefinedEffectSizeError(fmt.Sprintf("ratio %g/%g overflows", difference, pooledStd))
	}
	return d, nil
}

// ClassifyEffect applies Cohen's conventional cut-offs to |d|.
func ClassifyEffect(d float64) behavior.EffectMagnitude {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return behavior.MagnitudeUndefined
	}
	switch abs := math.Abs(d); {
	case abs < 0.2:
		return behavior.MagnitudeNegligible
	case abs < 0.5:
		return behavior.MagnitudeSmall
	case abs < 0.8:
		return behavior.MagnitudeMedium
	}
	return behavior.MagnitudeLarge
}
