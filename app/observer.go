package app

import (
	"digihealth/domain/behavior"
)

// TotalStages is the number of progress steps a run reports.
const TotalStages = 4

// Observer receives progress events in pipeline order. Implementations must
// not modify the values they are handed.
type Observer interface {
	StageStarted(step, total int, title string)
	DatasetLoaded(ds *behavior.Dataset)
	CleanedWritten(path string, columns int)
	ThresholdsComputed(t behavior.Thresholds)
	CohortsCompared(a *behavior.Analysis)
	OutputWritten(path string)
}

// NopObserver ignores every event
type NopObserver struct{}

func (NopObserver) StageStarted(int, int, string) {}
func (NopObserver) DatasetLoaded(*behavior.Dataset) {}
func (NopObserver) CleanedWritten(string, int) {}
func (NopObserver) ThresholdsComputed(behavior.Thresholds) {}
func (NopObserver) CohortsCompared(*behavior.Analysis) {}
func (NopObserver) OutputWritten(string) {}
