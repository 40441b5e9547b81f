package analysis

import (
	"math"
	"testing"

	"digihealth/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile_LinearInterpolation(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"upper quartile between ranks", []float64{100, 200, 300, 400}, 0.75, 325},
		{"median of even count", []float64{100, 200, 300, 400}, 0.5, 250},
		{"lower quartile unsorted input", []float64{8, 7, 6, 5}, 0.25, 5.75},
		{"median of odd count", []float64{3, 1, 2}, 0.5, 2},
		{"exact rank", []float64{10, 20, 30, 40, 50}, 0.25, 20},
		{"not nearest rank", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"single value", []float64{42}, 0.3, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Percentile(tt.values, tt.p)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestPercentile_Bounds(t *testing.T) {
	values := []float64{4.5, -2, 9.25, 0, 3}

	min, err := Percentile(values, 0)
	require.NoError(t, err)
	assert.Equal(t, -2.0, min)

	max, err := Percentile(values, 1)
	require.NoError(t, err)
	assert.Equal(t, 9.25, max)

	p50, err := Percentile(values, 0.5)
	require.NoError(t, err)
	median, err := Median(values)
	require.NoError(t, err)
	assert.Equal(t, p50, median)
	assert.Equal(t, 3.0, median)
}

func TestPercentile_DoesNotModifyInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_, err := Percentile(values, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestPercentile_Errors(t *testing.T) {
	_, err := Percentile(nil, 0.5)
	assert.ErrorIs(t, err, core.ErrEmptyDataset)

	for _, p := range []float64{-0.1, 1.01, math.NaN()} {
		_, err := Percentile([]float64{1, 2}, p)
		assert.ErrorIs(t, err, core.ErrInvalidPercentile, "p=%v", p)
	}
}
