package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"digihealth/domain/behavior"
	"digihealth/internal/config"
	"digihealth/internal/errors"
	"digihealth/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "ERROR")
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func scenarioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.csv")
	require.NoError(t, testkit.WriteCSV(path, testkit.SourceRecords(testkit.ScenarioRows())))
	return path
}

func TestThresholdsCmd_JSON(t *testing.T) {
	out, err := execute(t, "thresholds", "--json", "--input", scenarioFile(t))
	require.NoError(t, err)

	var got behavior.Thresholds
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, behavior.Thresholds{Social: 325, Sleep: 5.75, MedianSocial: 250}, got)
}

func TestCohortsCmd_List(t *testing.T) {
	out, err := execute(t, "cohorts", "--list", "--input", scenarioFile(t))
	require.NoError(t, err)

	assert.Contains(t, out, "High-risk group size: 1")
	assert.Contains(t, out, "Low-risk group size:  2")
	assert.Contains(t, out, "High-Risk Group rows (1-based): 4")
	assert.Contains(t, out, "Low-Risk Group rows (1-based): 1 2")
	assert.Contains(t, out, "effect size undefined")
}

func TestProfileCmd(t *testing.T) {
	out, err := execute(t, "profile", "--input", scenarioFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "social_media_time_min")
	assert.Contains(t, out, "250.00")
}

func TestAnalyzeCmd_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "analyze", "--input", filepath.Join(dir, "absent.xlsx"), "--output-dir", dir)
	require.Error(t, err)
	assert.Equal(t, 2, errors.ExitCode(err))
}

func TestAnalyzeCmd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "survey.xlsx")
	ds := testkit.NewBehaviorGenerator(testkit.DefaultBehaviorConfig()).Generate(input)
	require.NoError(t, testkit.WriteXLSX(input, "", testkit.SourceRecords(ds.Rows)))

	cfgPath := filepath.Join(dir, "digihealth.yaml")
	cfg := config.Default()
	cfg.Output.ChartDPI = 72
	require.NoError(t, config.Save(cfg, cfgPath))

	out, err := execute(t, "analyze", "--config", cfgPath, "--input", input, "--output-dir", filepath.Join(dir, "out"))
	require.NoError(t, err)

	assert.Contains(t, out, "[1/4]")
	assert.Contains(t, out, "[4/4]")
	assert.Contains(t, out, "Analysis complete")
	assert.FileExists(t, filepath.Join(dir, "out", "FINAL_chart_correlation_heatmap.png"))
}

func TestConfigInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digihealth.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	t.Setenv("LOG_LEVEL", "")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = execute(t, "config", "init", path)
	require.Error(t, err)
	assert.Equal(t, 4, errors.ExitCode(err))

	_, err = execute(t, "config", "init", "--force", path)
	assert.NoError(t, err)
}
