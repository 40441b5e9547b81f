package excel

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"digihealth/domain/behavior"
	"digihealth/domain/core"
	"digihealth/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name string, records [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if strings.HasSuffix(name, ".csv") {
		require.NoError(t, testkit.WriteCSV(path, records))
	} else {
		require.NoError(t, testkit.WriteXLSX(path, "", records))
	}
	return path
}

func TestDatasetLoader_XLSX(t *testing.T) {
	path := writeFixture(t, "survey.xlsx", testkit.SourceRecords(testkit.ScenarioRows()))

	ds, err := NewDatasetLoader(NewDataReader(path, "")).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, path, ds.Source)
	assert.Equal(t, testkit.ScenarioRows(), ds.Rows)
}

func TestDatasetLoader_CSV(t *testing.T) {
	path := writeFixture(t, "survey.csv", testkit.SourceRecords(testkit.ScenarioRows()))

	ds, err := NewDatasetLoader(NewDataReader(path, "")).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testkit.ScenarioRows(), ds.Rows)
}

func TestDatasetLoader_NamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.xlsx")
	require.NoError(t, testkit.WriteXLSX(path, "responses", testkit.SourceRecords(testkit.ScenarioRows())))

	ds, err := NewDatasetLoader(NewDataReader(path, "responses")).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())

	_, err = NewDatasetLoader(NewDataReader(path, "missing")).Load(context.Background())
	assert.Error(t, err)
}

func TestDatasetLoader_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.xlsx")

	_, err := NewDatasetLoader(NewDataReader(path, "")).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDataSourceNotFound))
	assert.Contains(t, err.Error(), "absent.xlsx")
}

func TestDatasetLoader_MissingColumn(t *testing.T) {
	records := testkit.SourceRecords(testkit.ScenarioRows())
	for i, h := range records[0] {
		if h == string(behavior.ColumnSleepHours) {
			records[0][i] = "sleep"
		}
	}
	path := writeFixture(t, "survey.csv", records)

	_, err := NewDatasetLoader(NewDataReader(path, "")).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidColumn))
	assert.Contains(t, err.Error(), "sleep_hours")
}

func TestDatasetLoader_NonNumericCell(t *testing.T) {
	records := testkit.SourceRecords(testkit.ScenarioRows())
	col := -1
	for i, h := range records[0] {
		if h == string(behavior.ColumnStress) {
			col = i
		}
	}
	require.NotEqual(t, -1, col)
	records[3][col] = "high"
	path := writeFixture(t, "survey.csv", records)

	_, err := NewDatasetLoader(NewDataReader(path, "")).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidColumn))
	assert.Contains(t, err.Error(), "row 3")
	assert.Contains(t, err.Error(), "stress_level")
}

func TestDatasetLoader_EmptyCell(t *testing.T) {
	records := testkit.SourceRecords(testkit.ScenarioRows())
	records[1][5] = ""
	path := writeFixture(t, "survey.csv", records)

	_, err := NewDatasetLoader(NewDataReader(path, "")).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidColumn))
	assert.Contains(t, err.Error(), "missing")
}

func TestDatasetLoader_HeaderOnly(t *testing.T) {
	path := writeFixture(t, "survey.csv", testkit.SourceRecords(nil))

	_, err := NewDatasetLoader(NewDataReader(path, "")).Load(context.Background())
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}

func TestDatasetLoader_SkipsBlankRows(t *testing.T) {
	records := testkit.SourceRecords(testkit.ScenarioRows())
	blank := make([]string, len(records[0]))
	records = append(records[:3], append([][]string{blank}, records[3:]...)...)
	path := writeFixture(t, "survey.csv", records)

	ds, err := NewDatasetLoader(NewDataReader(path, "")).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testkit.ScenarioRows(), ds.Rows)
}

func TestDatasetLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDatasetLoader(NewDataReader("whatever.xlsx", "")).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" 7.5 ", 7.5, true},
		{"1e2", 100, true},
		{"-3", -3, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"inf", 0, false},
		{"seven", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumeric(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestCleanedWriter_RoundTrip(t *testing.T) {
	rows := testkit.ScenarioRows()
	rows[0].SleepHours = 7.123456789012345
	rows[1].SocialMediaTimeMin = 0.1 + 0.2
	ds := behavior.NewDataset("mem", rows)

	path := filepath.Join(t.TempDir(), "out", "cleaned_behavior_data.csv")
	written, hash, err := NewCleanedWriter(path).WriteCleaned(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, core.NewHash(raw), hash)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "social_media_time_min,sleep_hours,negative_interactions_count,positive_interactions_count,stress_level,anxiety_level,mood_level", lines[0])
	assert.Equal(t, "100,7.123456789012345,0,2,2,1,8", lines[1])

	reread, err := NewDatasetLoader(NewDataReader(path, "")).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, reread.Rows)
}

func TestEncodeCleaned_Deterministic(t *testing.T) {
	ds := behavior.NewDataset("mem", testkit.ScenarioRows())

	var a, b bytes.Buffer
	require.NoError(t, EncodeCleaned(&a, ds))
	require.NoError(t, EncodeCleaned(&b, ds))
	assert.Equal(t, a.Bytes(), b.Bytes())
}
