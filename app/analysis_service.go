package app

import (
	"context"
	"time"

	"digihealth/domain/behavior"
	"digihealth/domain/core"
	"digihealth/domain/run"
	"digihealth/internal"
	"digihealth/internal/analysis"
	"digihealth/internal/errors"
	"digihealth/ports"
)

// CodeVersion is recorded in run fingerprints.
const CodeVersion = "digihealth/1.0.0"

// AnalysisService runs the one-shot pipeline: load, clean, threshold,
// partition, compare and publish. Stages run sequentially and each takes
// only the previous stage's output.
type AnalysisService struct {
	source   ports.DatasetSource
	cleaned  ports.CleanedDataWriter
	sinks    []ports.ReportSink
	manifest ports.ManifestWriter
	observer Observer
	logger   *internal.Logger
}

// AnalysisResult is everything a finished run produced
type AnalysisResult struct {
	RunID       core.RunID
	Analysis    *behavior.Analysis
	CleanedPath string
	DatasetHash core.Hash
	Outputs     []string
	Manifest    *run.Manifest
	RuntimeMs   int64
}

// NewAnalysisService creates the pipeline. manifest may be nil to skip the run
// manifest.
func NewAnalysisService(source ports.DatasetSource, cleaned ports.CleanedDataWriter, sinks []ports.ReportSink, manifest ports.ManifestWriter) *AnalysisService {
	return &AnalysisService{
		source:   source,
		cleaned:  cleaned,
		sinks:    sinks,
		manifest: manifest,
		observer: NopObserver{},
		logger:   internal.DefaultLogger.WithField("component", "analysis_service"),
	}
}

// WithObserver sets the progress observer.
func (s *AnalysisService) WithObserver(o Observer) *AnalysisService {
	if o == nil {
		o = NopObserver{}
	}
	s.observer = o
	return s
}

// WithLogger replaces the service logger.
func (s *AnalysisService) WithLogger(logger *internal.Logger) *AnalysisService {
	s.logger = logger
	return s
}

// LoadDataset runs only the load stage.
func (s *AnalysisService) LoadDataset(ctx context.Context) (*behavior.Dataset, error) {
	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", s.source.Source())
	}
	s.logger.WithField("stage", "load").Info("loaded %d rows from %s", ds.Len(), ds.Source)
	return ds, nil
}

// Run executes every stage. Missing or malformed input aborts before any file
// is written; undefined statistics are logged as warnings and do not.
func (s *AnalysisService) Run(ctx context.Context) (*AnalysisResult, error) {
	start := time.Now()
	result := &AnalysisResult{RunID: core.NewRunID()}
	log := s.logger.WithField("run_id", result.RunID.String())

	s.observer.StageStarted(1, TotalStages, "Loading data")
	ds, err := s.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	s.observer.DatasetLoaded(ds)

	s.observer.StageStarted(2, TotalStages, "Cleaning data and computing thresholds")
	path, hash, err := s.cleaned.WriteCleaned(ctx, ds)
	if err != nil {
		return nil, errors.OutputError("cleaned data", err)
	}
	result.CleanedPath, result.DatasetHash = path, hash
	result.Outputs = append(result.Outputs, path)
	s.observer.CleanedWritten(path, len(behavior.CoreColumns))

	thresholds, err := analysis.ComputeThresholds(ds)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute thresholds")
	}
	log.WithField("stage", "thresholds").Debug("social=%.2f sleep=%.2f median=%.2f",
		thresholds.Social, thresholds.Sleep, thresholds.MedianSocial)
	s.observer.ThresholdsComputed(thresholds)

	s.observer.StageStarted(3, TotalStages, "Partitioning users into cohorts")
	high, low := analysis.NewCohortPartitioner(thresholds).Partition(ds)
	comparison := analysis.CompareCohorts(high, low)
	for _, issue := range comparison.Issues {
		log.WithField("stage", "compare").Warn("%v", issue)
	}
	correlation, err := analysis.CorrelationMatrix(ds)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute correlation matrix")
	}
	result.Analysis = &behavior.Analysis{
		Dataset:     ds,
		Thresholds:  thresholds,
		HighRisk:    high,
		LowRisk:     low,
		Comparison:  comparison,
		Correlation: correlation,
	}
	s.observer.CohortsCompared(result.Analysis)

	s.observer.StageStarted(4, TotalStages, "Generating reports")
	for _, sink := range s.sinks {
		paths, err := sink.Publish(ctx, result.Analysis)
		for _, p := range paths {
			result.Outputs = append(result.Outputs, p)
			s.observer.OutputWritten(p)
		}
		if err != nil {
			return nil, errors.OutputError(sink.Name()+" report", err)
		}
		log.WithField("stage", "publish").Debug("%s wrote %d files", sink.Name(), len(paths))
	}

	if s.manifest != nil {
		manifest := run.NewManifest(result.RunID, s.source.Source(), result.Analysis, hash, CodeVersion)
		manifest.AddOutputs(result.Outputs...)
		p, err := s.manifest.WriteManifest(ctx, manifest)
		if err != nil {
			return nil, errors.OutputError("run manifest", err)
		}
		result.Manifest = manifest
		result.Outputs = append(result.Outputs, p)
		s.observer.OutputWritten(p)
	}

	result.RuntimeMs = time.Since(start).Milliseconds()
	log.Info("run finished in %dms with %d outputs", result.RuntimeMs, len(result.Outputs))
	return result, nil
}
