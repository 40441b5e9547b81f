package analysis

import (
	"math"

	"digihealth/domain/behavior"
	"digihealth/domain/core"
)

// Quantiles used to derive the cohort thresholds.
const (
	HighUsageQuantile  = 0.75
	ShortSleepQuantile = 0.25
	MedianQuantile     = 0.50
)

// ComputeThresholds derives the three cohort thresholds from the full columns.
func ComputeThresholds(ds *behavior.Dataset) (behavior.Thresholds, error) {
	if ds.Len() == 0 {
		return behavior.Thresholds{}, core.ErrEmptyDataset
	}

	social, err := finiteColumn(ds, behavior.ColumnSocialMediaTime)
	if err != nil {
		return behavior.Thresholds{}, err
	}
	sleep, err := finiteColumn(ds, behavior.ColumnSleepHours)
	if err != nil {
		return behavior.Thresholds{}, err
	}

	var t behavior.Thresholds
	if t.Social, err = Percentile(social, HighUsageQuantile); err != nil {
		return behavior.Thresholds{}, err
	}
	if t.Sleep, err = Percentile(sleep, ShortSleepQuantile); err != nil {
		return behavior.Thresholds{}, err
	}
	if t.MedianSocial, err = Percentile(social, MedianQuantile); err != nil {
		return behavior.Thresholds{}, err
	}
	return t, nil
}

func finiteColumn(ds *behavior.Dataset, col behavior.Column) ([]float64, error) {
	values := ds.Column(col)
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, core.NewInvalidColumnError(col.String(), i+1, "value is not a finite number")
		}
	}
	return values, nil
}
