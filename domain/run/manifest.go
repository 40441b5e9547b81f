package run

import (
	"digihealth/domain/behavior"
	"digihealth/domain/core"
)

// Manifest is the machine-readable record of one analysis run.
type Manifest struct {
	RunID       core.RunID          `json:"run_id"`
	InputPath   string              `json:"input_path"`
	Thresholds  behavior.Thresholds `json:"thresholds"`
	Comparison  ComparisonSummary   `json:"comparison"`
	Warnings    []string            `json:"warnings,omitempty"`
	Outputs     []string            `json:"outputs"`
	Fingerprint RunFingerprint      `json:"fingerprint"`
	CreatedAt   core.Timestamp      `json:"created_at"`
}

// MetricSummary is the serializable form of a behavior.MetricComparison.
type MetricSummary struct {
	HighRisk   Value `json:"high_risk_mean"`
	LowRisk    Value `json:"low_risk_mean"`
	Difference Value `json:"difference"`
}

// ComparisonSummary is the serializable form of a behavior.ComparisonResult.
type ComparisonSummary struct {
	HighRiskSize      int                      `json:"high_risk_size"`
	LowRiskSize       int                      `json:"low_risk_size"`
	Stress            MetricSummary            `json:"stress_level"`
	Anxiety           MetricSummary            `json:"anxiety_level"`
	Mood              MetricSummary            `json:"mood_level"`
	HighRiskStressStd Value                    `json:"high_risk_stress_std"`
	LowRiskStressStd  Value                    `json:"low_risk_stress_std"`
	PooledStressStd   Value                    `json:"pooled_stress_std"`
	CohensD           Value                    `json:"cohens_d"`
	Magnitude         behavior.EffectMagnitude `json:"magnitude"`
}

// NewManifest creates a run manifest from a completed analysis
func NewManifest(runID core.RunID, inputPath string, analysis *behavior.Analysis, datasetHash core.Hash, codeVersion string) *Manifest {
	cmp := analysis.Comparison

	return &Manifest{
		RunID:      runID,
		InputPath:  inputPath,
		Thresholds: analysis.Thresholds,
		Comparison: ComparisonSummary{
			HighRiskSize:      cmp.HighRiskSize,
			LowRiskSize:       cmp.LowRiskSize,
			Stress:            summarizeMetric(cmp.Stress),
			Anxiety:           summarizeMetric(cmp.Anxiety),
			Mood:              summarizeMetric(cmp.Mood),
			HighRiskStressStd: Value(cmp.HighRiskStressStd),
			LowRiskStressStd:  Value(cmp.LowRiskStressStd),
			PooledStressStd:   Value(cmp.PooledStressStd),
			CohensD:           Value(cmp.CohensD),
			Magnitude:         cmp.Magnitude,
		},
		Warnings:    cmp.Warnings(),
		Outputs:     []string{},
		Fingerprint: NewRunFingerprint(datasetHash, analysis.Dataset.Len(), analysis.Thresholds, codeVersion),
		CreatedAt:   core.Now(),
	}
}

func summarizeMetric(m behavior.MetricComparison) MetricSummary {
	return MetricSummary{
		HighRisk:   Value(m.HighRiskMean),
		LowRisk:    Value(m.LowRiskMean),
		Difference: Value(m.Difference),
	}
}

// AddOutputs records files written by the run, skipping duplicates.
func (m *Manifest) AddOutputs(paths ...string) {
	seen := make(map[string]bool, len(m.Outputs))
	for _, p := range m.Outputs {
		seen[p] = true
	}
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		m.Outputs = append(m.Outputs, p)
	}
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("run_manifest", "run_id cannot be empty")
	}
	if m.InputPath == "" {
		return core.NewValidationError("run_manifest", "input_path cannot be empty")
	}
	if m.Fingerprint.DatasetHash.IsEmpty() {
		return core.NewValidationError("run_manifest", "dataset_hash cannot be empty")
	}
	if m.Fingerprint.CodeVersion == "" {
		return core.NewValidationError("run_manifest", "code_version cannot be empty")
	}
	return nil
}
