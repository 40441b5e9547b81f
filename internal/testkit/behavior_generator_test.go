package testkit

import (
	"path/filepath"
	"testing"

	"digihealth/domain/behavior"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBehaviorGenerator_Deterministic(t *testing.T) {
	cfg := DefaultBehaviorConfig()
	cfg.Users = 25

	a := NewBehaviorGenerator(cfg).Generate("a")
	b := NewBehaviorGenerator(cfg).Generate("b")

	require.Equal(t, 25, a.Len())
	assert.Equal(t, a.Rows, b.Rows)
}

func TestBehaviorGenerator_Ranges(t *testing.T) {
	ds := NewBehaviorGenerator(DefaultBehaviorConfig()).Generate("synthetic")

	for i, row := range ds.Rows {
		assert.GreaterOrEqual(t, row.SocialMediaTimeMin, 0.0, "row %d", i)
		assert.GreaterOrEqual(t, row.SleepHours, 3.0, "row %d", i)
		assert.LessOrEqual(t, row.SleepHours, 11.0, "row %d", i)
		assert.GreaterOrEqual(t, row.NegativeInteractionsCount, 0.0, "row %d", i)
		for _, col := range []behavior.Column{behavior.ColumnStress, behavior.ColumnAnxiety, behavior.ColumnMood} {
			v := row.Value(col)
			assert.True(t, v >= 1 && v <= 10, "row %d %s=%v", i, col, v)
		}
	}
}

func TestWriteXLSX_NamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	records := SourceRecords(ScenarioRows())

	require.NoError(t, WriteXLSX(path, "responses", records))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"responses"}, f.GetSheetList())
	rows, err := f.GetRows("responses")
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Equal(t, SourceColumns, rows[0])
}
