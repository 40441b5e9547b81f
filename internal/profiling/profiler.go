package profiling

import (
	"fmt"

	"digihealth/domain/behavior"
)

// DataProfiler profiles every core column of a dataset
type DataProfiler struct {
	analyzer *DistributionAnalyzer
}

// NewDataProfiler creates a new data profiler
func NewDataProfiler() *DataProfiler {
	return &DataProfiler{
		analyzer: NewDistributionAnalyzer(),
	}
}

// ProfileColumn performs statistical analysis on a single column
func (dp *DataProfiler) ProfileColumn(ds *behavior.Dataset, col behavior.Column) (ColumnProfile, error) {
	profile, err := dp.analyzer.AnalyzeDistribution(ds.Column(col))
	profile.Column = col
	if err != nil {
		return profile, fmt.Errorf("profile %s: %w", col, err)
	}
	return profile, nil
}

// ProfileDataset analyzes the core columns in output order
func (dp *DataProfiler) ProfileDataset(ds *behavior.Dataset) ([]ColumnProfile, error) {
	results := make([]ColumnProfile, 0, len(behavior.CoreColumns))
	for _, col := range behavior.CoreColumns {
		profile, err := dp.ProfileColumn(ds, col)
		if err != nil {
			return nil, err
		}
		results = append(results, profile)
	}
	return results, nil
}
