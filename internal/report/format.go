package report

import (
	"fmt"
	"math"
)

// NotAvailable is printed in place of an undefined statistic.
const NotAvailable = "n/a"

// FormatValue renders v with the given number of decimals, or n/a when v is
// NaN or infinite.
func FormatValue(v float64, decimals int) string {
	if !finite(v) {
		return NotAvailable
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

// orZero is the drawing value for a statistic that may be undefined.
func orZero(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
