package analysis

import (
	"digihealth/domain/behavior"
)

// LowRiskMinSleepHours is the fixed sleep floor of the low-risk cohort. It is
// deliberately not Thresholds.Sleep: high risk is relative to the sample,
// low risk is the recommended seven hours.
const LowRiskMinSleepHours = 7.0

// CohortPartitioner classifies rows against one set of thresholds
type CohortPartitioner struct {
	thresholds behavior.Thresholds
}

// NewCohortPartitioner creates a partitioner for the given thresholds
func NewCohortPartitioner(thresholds behavior.Thresholds) *CohortPartitioner {
	return &CohortPartitioner{thresholds: thresholds}
}

// Thresholds returns the thresholds the partitioner classifies against.
func (cp *CohortPartitioner) Thresholds() behavior.Thresholds {
	return cp.thresholds
}

// IsHighRisk: heavy usage, short sleep and at least one negative interaction.
func (cp *CohortPartitioner) IsHighRisk(r behavior.Row) bool {
	return r.SocialMediaTimeMin > cp.thresholds.Social &&
		r.SleepHours < cp.thresholds.Sleep &&
		r.NegativeInteractionsCount > 0
}

// IsLowRisk: at most median usage, seven or more hours of sleep and no
// negative interactions.
func (cp *CohortPartitioner) IsLowRisk(r behavior.Row) bool {
	return r.SocialMediaTimeMin <= cp.thresholds.MedianSocial &&
		r.SleepHours >= LowRiskMinSleepHours &&
		r.NegativeInteractionsCount == 0
}

// Partition splits ds into the high-risk and low-risk cohorts, keeping dataset
// order. Rows matching neither predicate belong to no cohort. Since
// MedianSocial <= Social, no row can match both.
func (cp *CohortPartitioner) Partition(ds *behavior.Dataset) (high, low behavior.Cohort) {
	high = behavior.Cohort{Name: behavior.CohortHighRisk}
	low = behavior.Cohort{Name: behavior.CohortLowRisk}
	if ds == nil {
		return high, low
	}

	for i, r := range ds.Rows {
		switch {
		case cp.IsHighRisk(r):
			high.Rows = append(high.Rows, r)
			high.Indices = append(high.Indices, i)
		case cp.IsLowRisk(r):
			low.Rows = append(low.Rows, r)
			low.Indices = append(low.Indices, i)
		}
	}
	return high, low
}
