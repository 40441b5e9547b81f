package analysis

import (
	"digihealth/domain/behavior"
)

// Analyze runs the pure stages in order: thresholds, cohorts, comparison and
// correlation. Each stage takes only the previous stage's output.
func Analyze(ds *behavior.Dataset) (*behavior.Analysis, error) {
	thresholds, err := ComputeThresholds(ds)
	if err != nil {
		return nil, err
	}

	high, low := NewCohortPartitioner(thresholds).Partition(ds)
	comparison := CompareCohorts(high, low)

	correlation, err := CorrelationMatrix(ds)
	if err != nil {
		return nil, err
	}

	return &behavior.Analysis{
		Dataset:     ds,
		Thresholds:  thresholds,
		HighRisk:    high,
		LowRisk:     low,
		Comparison:  comparison,
		Correlation: correlation,
	}, nil
}
