package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"digihealth/domain/behavior"
	"digihealth/domain/core"
	"digihealth/domain/run"
	apperrors "digihealth/internal/errors"
	"digihealth/internal/testkit"
	"digihealth/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDatasetSource struct {
	mock.Mock
}

func (m *MockDatasetSource) Source() string { return "survey.xlsx" }

func (m *MockDatasetSource) Load(ctx context.Context) (*behavior.Dataset, error) {
	args := m.Called(ctx)
	ds, _ := args.Get(0).(*behavior.Dataset)
	return ds, args.Error(1)
}

type MockCleanedWriter struct {
	mock.Mock
}

func (m *MockCleanedWriter) WriteCleaned(ctx context.Context, ds *behavior.Dataset) (string, core.Hash, error) {
	args := m.Called(ctx, ds)
	return args.String(0), args.Get(1).(core.Hash), args.Error(2)
}

type MockReportSink struct {
	mock.Mock
}

func (m *MockReportSink) Name() string { return "mock" }

func (m *MockReportSink) Publish(ctx context.Context, a *behavior.Analysis) ([]string, error) {
	args := m.Called(ctx, a)
	paths, _ := args.Get(0).([]string)
	return paths, args.Error(1)
}

type MockManifestWriter struct {
	mock.Mock
}

func (m *MockManifestWriter) WriteManifest(ctx context.Context, manifest *run.Manifest) (string, error) {
	args := m.Called(ctx, manifest)
	return args.String(0), args.Error(1)
}

type recordingObserver struct {
	NopObserver
	steps   []int
	outputs []string
}

func (o *recordingObserver) StageStarted(step, total int, title string) {
	o.steps = append(o.steps, step)
}

func (o *recordingObserver) OutputWritten(path string) {
	o.outputs = append(o.outputs, path)
}

func TestAnalysisService_Run(t *testing.T) {
	ctx := context.Background()
	ds := behavior.NewDataset("survey.xlsx", testkit.ScenarioRows())

	source := new(MockDatasetSource)
	source.On("Load", ctx).Return(ds, nil)
	writer := new(MockCleanedWriter)
	writer.On("WriteCleaned", ctx, ds).Return("cleaned_behavior_data.csv", core.NewHash([]byte("csv")), nil)
	sink := new(MockReportSink)
	sink.On("Publish", ctx, mock.AnythingOfType("*behavior.Analysis")).Return([]string{"chart.png"}, nil)
	manifests := new(MockManifestWriter)
	manifests.On("WriteManifest", ctx, mock.AnythingOfType("*run.Manifest")).Return("analysis_manifest.json", nil)

	observer := &recordingObserver{}
	svc := NewAnalysisService(source, writer, []ports.ReportSink{sink}, manifests).WithObserver(observer)

	result, err := svc.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4}, observer.steps)
	assert.Equal(t, []string{"cleaned_behavior_data.csv", "chart.png", "analysis_manifest.json"}, result.Outputs)
	assert.Equal(t, []string{"chart.png", "analysis_manifest.json"}, observer.outputs)

	a := result.Analysis
	assert.Equal(t, behavior.Thresholds{Social: 325, Sleep: 5.75, MedianSocial: 250}, a.Thresholds)
	assert.Equal(t, []int{3}, a.HighRisk.Indices)
	assert.Equal(t, []int{0, 1}, a.LowRisk.Indices)
	assert.InDelta(t, 4.5, a.Comparison.Stress.Difference, 1e-12)
	assert.True(t, math.IsNaN(a.Comparison.CohensD))

	require.NotNil(t, result.Manifest)
	assert.Equal(t, "survey.xlsx", result.Manifest.InputPath)
	assert.Equal(t, []string{"cleaned_behavior_data.csv", "chart.png"}, result.Manifest.Outputs)
	assert.NotEmpty(t, result.Manifest.Warnings)

	source.AssertExpectations(t)
	writer.AssertExpectations(t)
	sink.AssertExpectations(t)
	manifests.AssertExpectations(t)
}

func TestAnalysisService_MissingInputWritesNothing(t *testing.T) {
	ctx := context.Background()

	source := new(MockDatasetSource)
	source.On("Load", ctx).Return(nil, core.NewDataSourceNotFoundError("survey.xlsx"))
	writer := new(MockCleanedWriter)
	sink := new(MockReportSink)

	_, err := NewAnalysisService(source, writer, []ports.ReportSink{sink}, nil).Run(ctx)
	require.Error(t, err)

	assert.True(t, errors.Is(err, core.ErrDataSourceNotFound))
	assert.Equal(t, apperrors.CodeDataSourceNotFound, apperrors.GetCode(err))
	assert.Equal(t, 2, apperrors.ExitCode(err))
	writer.AssertNotCalled(t, "WriteCleaned", mock.Anything, mock.Anything)
	sink.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestAnalysisService_InvalidColumn(t *testing.T) {
	ctx := context.Background()

	source := new(MockDatasetSource)
	source.On("Load", ctx).Return(nil, core.NewInvalidColumnError("sleep_hours", 0, "column not found in header"))
	writer := new(MockCleanedWriter)

	_, err := NewAnalysisService(source, writer, nil, nil).Run(ctx)
	require.Error(t, err)
	assert.Equal(t, 3, apperrors.ExitCode(err))
	writer.AssertNotCalled(t, "WriteCleaned", mock.Anything, mock.Anything)
}

func TestAnalysisService_SinkFailure(t *testing.T) {
	ctx := context.Background()
	ds := behavior.NewDataset("survey.xlsx", testkit.ScenarioRows())

	source := new(MockDatasetSource)
	source.On("Load", ctx).Return(ds, nil)
	writer := new(MockCleanedWriter)
	writer.On("WriteCleaned", ctx, ds).Return("cleaned.csv", core.NewHash([]byte("csv")), nil)
	sink := new(MockReportSink)
	sink.On("Publish", ctx, mock.Anything).Return(nil, errors.New("disk full"))

	_, err := NewAnalysisService(source, writer, []ports.ReportSink{sink}, nil).Run(ctx)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeOutputError, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestAnalysisService_EmptyCohortsDoNotAbort(t *testing.T) {
	ctx := context.Background()
	// Nobody qualifies for the low risk cohort: every user has a negative interaction.
	rows := testkit.ScenarioRows()
	for i := range rows {
		rows[i].NegativeInteractionsCount = 1
	}
	ds := behavior.NewDataset("survey.xlsx", rows)

	source := new(MockDatasetSource)
	source.On("Load", ctx).Return(ds, nil)
	writer := new(MockCleanedWriter)
	writer.On("WriteCleaned", ctx, ds).Return("cleaned.csv", core.NewHash([]byte("csv")), nil)

	result, err := NewAnalysisService(source, writer, nil, nil).Run(ctx)
	require.NoError(t, err)
	assert.True(t, result.Analysis.LowRisk.IsEmpty())
	assert.True(t, math.IsNaN(result.Analysis.Comparison.Stress.LowRiskMean))
	assert.Nil(t, result.Manifest)
}
