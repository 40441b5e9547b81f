package profiling

import (
	"digihealth/domain/behavior"
)

// ColumnProfile is the descriptive summary of one column.
type ColumnProfile struct {
	Column behavior.Column
	Count  int

	Mean   float64
	StdDev float64 // sample (n-1)
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64

	Skewness float64
	Kurtosis float64
	// Outliers counts values beyond 1.5 IQR from the quartiles.
	Outliers int
}

// IQR is the interquartile range.
func (p ColumnProfile) IQR() float64 {
	return p.Q75 - p.Q25
}
