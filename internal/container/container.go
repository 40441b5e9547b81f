package container

import (
	"fmt"
	"io"

	"digihealth/adapters/excel"
	"digihealth/app"
	"digihealth/internal"
	"digihealth/internal/config"
	"digihealth/internal/report"
	"digihealth/ports"
)

var _ app.Observer = (*report.ConsoleProgress)(nil)

// Container holds all application dependencies for one run
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Input
	Reader *excel.DataReader
	Loader *excel.DatasetLoader

	// Outputs
	CleanedWriter *excel.CleanedWriter
	Charts        *report.ChartRenderer
	Summary       *report.SummaryWriter // nil when summaries are disabled
	Manifests     *report.ManifestStore // nil when the manifest is disabled
	Progress      *report.ConsoleProgress

	AnalysisService *app.AnalysisService
}

// New creates a new dependency injection container. Progress is printed to
// console; pass io.Discard to silence it.
func New(cfg *config.Config, console io.Writer) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level)),
	}
	c.initInput()
	c.initOutputs(console)
	c.initService()

	c.Logger.Debug("container initialized: input=%s output=%s", cfg.Paths.InputFile, cfg.Output.Dir)
	return c, nil
}

// initInput wires the spreadsheet reader and dataset loader
func (c *Container) initInput() {
	c.Reader = excel.NewDataReader(c.Config.Paths.InputFile, c.Config.Paths.Sheet).
		WithLogger(c.Logger.WithField("component", "reader"))
	c.Loader = excel.NewDatasetLoader(c.Reader)
}

// initOutputs wires the cleaned data writer and report sinks
func (c *Container) initOutputs(console io.Writer) {
	out := c.Config.Output
	c.CleanedWriter = excel.NewCleanedWriter(c.Config.CleanedPath())
	c.Charts = report.NewChartRenderer(out.Dir, out.ChartPrefix, out.ChartDPI).
		WithLogger(c.Logger.WithField("component", "charts"))
	if out.Summary {
		c.Summary = report.NewSummaryWriter(out.Dir, out.SummaryName)
	}
	if out.Manifest {
		c.Manifests = report.NewManifestStore(c.Config.ManifestPath())
	}
	c.Progress = report.NewConsoleProgress(console)
}

// initService assembles the pipeline from the wired components
func (c *Container) initService() {
	sinks := []ports.ReportSink{c.Charts}
	if c.Summary != nil {
		sinks = append(sinks, c.Summary)
	}

	var manifests ports.ManifestWriter
	if c.Manifests != nil {
		manifests = c.Manifests
	}

	c.AnalysisService = app.NewAnalysisService(c.Loader, c.CleanedWriter, sinks, manifests).
		WithObserver(c.Progress).
		WithLogger(c.Logger.WithField("component", "analysis_service"))
}
