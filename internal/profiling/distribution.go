package profiling

import (
	"math"

	"digihealth/internal/analysis"

	"github.com/montanaflynn/stats"
)

// DistributionAnalyzer handles distribution shape analysis
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// AnalyzeDistribution computes summary statistics and shape of data.
// Quartiles use the same linear interpolation as the cohort thresholds.
func (da *DistributionAnalyzer) AnalyzeDistribution(data []float64) (ColumnProfile, error) {
	profile := ColumnProfile{Count: len(data)}

	mean, err := stats.Mean(data)
	if err != nil {
		return profile, err
	}

	stdDev := math.NaN()
	if len(data) > 1 {
		if stdDev, err = stats.StandardDeviationSample(data); err != nil {
			return profile, err
		}
	}

	min, err := stats.Min(data)
	if err != nil {
		return profile, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return profile, err
	}

	q25, err := analysis.Percentile(data, 0.25)
	if err != nil {
		return profile, err
	}
	median, err := analysis.Median(data)
	if err != nil {
		return profile, err
	}
	q75, err := analysis.Percentile(data, 0.75)
	if err != nil {
		return profile, err
	}

	profile.Mean = mean
	profile.StdDev = stdDev
	profile.Min = min
	profile.Q25 = q25
	profile.Median = median
	profile.Q75 = q75
	profile.Max = max
	profile.Skewness = calculateSkewness(data, mean, stdDev)
	profile.Kurtosis = calculateKurtosis(data, mean, stdDev)
	profile.Outliers = detectOutliers(data, q25, q75)

	return profile, nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 || math.IsNaN(stdDev) {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0

	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n

	// Bias correction for sample skewness
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return skewness * correction
}

// calculateKurtosis computes sample kurtosis (normal = 3)
func calculateKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 || math.IsNaN(stdDev) {
		return 0
	}

	n := float64(len(data))
	sumFourthDeviations := 0.0

	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumFourthDeviations += deviation * deviation * deviation * deviation
	}

	excessKurtosis := sumFourthDeviations/n - 3

	// Bias correction for sample excess kurtosis
	correction := (n - 1) / ((n - 2) * (n - 3))
	excessKurtosis = excessKurtosis*correction + 6/(n+1)

	return excessKurtosis + 3
}

// detectOutliers identifies outliers using IQR method
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}

	return outlierCount
}
