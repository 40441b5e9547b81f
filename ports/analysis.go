package ports

import (
	"context"

	"digihealth/domain/behavior"
	"digihealth/domain/core"
	"digihealth/domain/run"
)

// DatasetSource loads the analysed dataset from wherever it lives
type DatasetSource interface {
	Source() string
	Load(ctx context.Context) (*behavior.Dataset, error)
}

// CleanedDataWriter persists the seven core columns and reports the path
// written together with a hash of its bytes
type CleanedDataWriter interface {
	WriteCleaned(ctx context.Context, ds *behavior.Dataset) (string, core.Hash, error)
}

// ReportSink renders a finished analysis and returns the files it produced.
// Sinks receive the analysis read-only.
type ReportSink interface {
	Name() string
	Publish(ctx context.Context, analysis *behavior.Analysis) ([]string, error)
}

// ManifestWriter records what a run consumed and produced
type ManifestWriter interface {
	WriteManifest(ctx context.Context, manifest *run.Manifest) (string, error)
}
