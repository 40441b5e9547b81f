package behavior

import (
	"fmt"
	"math"
)

// Column names one of the seven numeric fields kept from the source sheet.
type Column string

const (
	ColumnSocialMediaTime      Column = "social_media_time_min"
	ColumnSleepHours           Column = "sleep_hours"
	ColumnNegativeInteractions Column = "negative_interactions_count"
	ColumnPositiveInteractions Column = "positive_interactions_count"
	ColumnStress               Column = "stress_level"
	ColumnAnxiety              Column = "anxiety_level"
	ColumnMood                 Column = "mood_level"
)

// CoreColumns lists the cleaned columns in output order.
var CoreColumns = []Column{
	ColumnSocialMediaTime,
	ColumnSleepHours,
	ColumnNegativeInteractions,
	ColumnPositiveInteractions,
	ColumnStress,
	ColumnAnxiety,
	ColumnMood,
}

func (c Column) String() string { return string(c) }

// Row is one observed user-period record.
type Row struct {
	SocialMediaTimeMin        float64 `json:"social_media_time_min"`
	SleepHours                float64 `json:"sleep_hours"`
	NegativeInteractionsCount float64 `json:"negative_interactions_count"`
	PositiveInteractionsCount float64 `json:"positive_interactions_count"`
	StressLevel               float64 `json:"stress_level"`
	AnxietyLevel              float64 `json:"anxiety_level"`
	MoodLevel                 float64 `json:"mood_level"`
}

// Value returns the field backing col. Unknown columns yield NaN.
func (r Row) Value(col Column) float64 {
	switch col {
	case ColumnSocialMediaTime:
		return r.SocialMediaTimeMin
	case ColumnSleepHours:
		return r.SleepHours
	case ColumnNegativeInteractions:
		return r.NegativeInteractionsCount
	case ColumnPositiveInteractions:
		return r.PositiveInteractionsCount
	case ColumnStress:
		return r.StressLevel
	case ColumnAnxiety:
		return r.AnxietyLevel
	case ColumnMood:
		return r.MoodLevel
	}
	return math.NaN()
}

// Set assigns the field backing col. Used only while a row is being built.
func (r *Row) Set(col Column, v float64) error {
	switch col {
	case ColumnSocialMediaTime:
		r.SocialMediaTimeMin = v
	case ColumnSleepHours:
		r.SleepHours = v
	case ColumnNegativeInteractions:
		r.NegativeInteractionsCount = v
	case ColumnPositiveInteractions:
		r.PositiveInteractionsCount = v
	case ColumnStress:
		r.StressLevel = v
	case ColumnAnxiety:
		r.AnxietyLevel = v
	case ColumnMood:
		r.MoodLevel = v
	default:
		return fmt.Errorf("unknown column %q", col)
	}
	return nil
}

// Dataset is the full, ordered collection of rows from one source.
type Dataset struct {
	Source string
	Rows   []Row
}

// NewDataset wraps rows loaded from source.
func NewDataset(source string, rows []Row) *Dataset {
	return &Dataset{Source: source, Rows: rows}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Column returns a copy of one column's values in dataset order.
func (d *Dataset) Column(col Column) []float64 {
	values := make([]float64, 0, d.Len())
	for _, r := range d.Rows {
		values = append(values, r.Value(col))
	}
	return values
}

// Thresholds are derived once per dataset from the full columns.
type Thresholds struct {
	Social       float64 `json:"threshold_social"` // 75th percentile of social_media_time_min
	Sleep        float64 `json:"threshold_sleep"`  // 25th percentile of sleep_hours
	MedianSocial float64 `json:"median_social"`    // 50th percentile of social_media_time_min
}

// CohortName identifies a behavioral cohort.
type CohortName string

const (
	CohortHighRisk CohortName = "high_risk"
	CohortLowRisk  CohortName = "low_risk"
)

// Label is the human-readable form used in charts and summaries.
func (n CohortName) Label() string {
	switch n {
	case CohortHighRisk:
		return "High-Risk Group"
	case CohortLowRisk:
		return "Low-Risk Group"
	}
	return string(n)
}

// Cohort is a derived subset of a dataset. Indices are the positions of Rows in
// the source dataset, ascending.
type Cohort struct {
	Name    CohortName
	Rows    []Row
	Indices []int
}

// Size returns the member count.
func (c Cohort) Size() int {
	return len(c.Rows)
}

// IsEmpty reports whether the cohort has no members.
func (c Cohort) IsEmpty() bool {
	return len(c.Rows) == 0
}

// Values returns one column of the cohort's members in cohort order.
func (c Cohort) Values(col Column) []float64 {
	values := make([]float64, 0, len(c.Rows))
	for _, r := range c.Rows {
		values = append(values, r.Value(col))
	}
	return values
}

// EffectMagnitude is the conventional Cohen label for |d|.
type EffectMagnitude string

const (
	MagnitudeNegligible EffectMagnitude = "negligible"
	MagnitudeSmall      EffectMagnitude = "small"
	MagnitudeMedium     EffectMagnitude = "medium"
	MagnitudeLarge      EffectMagnitude = "large"
	MagnitudeUndefined  EffectMagnitude = "undefined"
)

// MetricComparison holds per-cohort means of one metric. Means of an empty
// cohort are NaN, and so is any difference involving them.
type MetricComparison struct {
	Metric       Column
	HighRiskMean float64
	LowRiskMean  float64
	Difference   float64 // high-risk minus low-risk
}

// ComparisonResult aggregates the high-risk vs low-risk comparison.
type ComparisonResult struct {
	HighRiskSize int
	LowRiskSize  int

	Stress  MetricComparison
	Anxiety MetricComparison
	Mood    MetricComparison

	// Sample standard deviations (n-1) of stress_level per cohort.
	HighRiskStressStd float64
	LowRiskStressStd  float64
	PooledStressStd   float64

	CohensD   float64
	Magnitude EffectMagnitude

	// Issues records why any value above is NaN. Each wraps
	// core.ErrEmptyCohort or core.ErrUndefinedEffectSize.
	Issues []error
}

// EffectSizeDefined reports whether CohensD is a finite number.
func (r ComparisonResult) EffectSizeDefined() bool {
	return !math.IsNaN(r.CohensD) && !math.IsInf(r.CohensD, 0)
}

// Warnings renders Issues as strings.
func (r ComparisonResult) Warnings() []string {
	out := make([]string, 0, len(r.Issues))
	for _, err := range r.Issues {
		out = append(out, err.Error())
	}
	return out
}

// CorrelationMatrix is a symmetric Pearson matrix, Values[i][j] row-major.
type CorrelationMatrix struct {
	Columns []Column
	Values  [][]float64
}

// At returns the coefficient between two columns, NaN if either is absent.
func (m CorrelationMatrix) At(a, b Column) float64 {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

func (m CorrelationMatrix) index(col Column) int {
	for i, c := range m.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Analysis is everything a report sink consumes from one run.
type Analysis struct {
	Dataset     *Dataset
	Thresholds  Thresholds
	HighRisk    Cohort
	LowRisk     Cohort
	Comparison  ComparisonResult
	Correlation CorrelationMatrix
}
