package analysis

import (
	"math"

	"digihealth/domain/behavior"
	"digihealth/domain/core"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix computes Pearson coefficients between the core columns.
// Every coefficient is NaN with fewer than two rows. A constant column yields
// NaN against every column, itself included.
func CorrelationMatrix(ds *behavior.Dataset) (behavior.CorrelationMatrix, error) {
	cols := behavior.CoreColumns
	if ds.Len() == 0 {
		return behavior.CorrelationMatrix{}, core.ErrEmptyDataset
	}

	result := behavior.CorrelationMatrix{
		Columns: append([]behavior.Column(nil), cols...),
		Values:  make([][]float64, len(cols)),
	}
	for i := range result.Values {
		result.Values[i] = make([]float64, len(cols))
	}

	if ds.Len() < 2 {
		for i := range result.Values {
			for j := range result.Values[i] {
				result.Values[i][j] = math.NaN()
			}
		}
		return result, nil
	}

	data := mat.NewDense(ds.Len(), len(cols), nil)
	for i, r := range ds.Rows {
		for j, col := range cols {
			data.Set(i, j, r.Value(col))
		}
	}

	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, data, nil)

	// gonum pins the diagonal to 1, constant columns are reported as NaN instead.
	constant := make([]bool, len(cols))
	for j := range cols {
		constant[j] = stat.Variance(mat.Col(nil, j, data), nil) == 0
	}

	for i := range cols {
		for j := range cols {
			if constant[i] || constant[j] {
				result.Values[i][j] = math.NaN()
				continue
			}
			result.Values[i][j] = corr.At(i, j)
		}
	}
	return result, nil
}
