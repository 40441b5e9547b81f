package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"digihealth/domain/behavior"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	bannerColor = color.New(color.FgCyan, color.Bold)
	stageColor  = color.New(color.FgYellow)
)

// ConsoleProgress prints the run's progress to a terminal
type ConsoleProgress struct {
	w io.Writer
}

// NewConsoleProgress creates a progress printer writing to w
func NewConsoleProgress(w io.Writer) *ConsoleProgress {
	return &ConsoleProgress{w: w}
}

// Banner prints the opening banner.
func (p *ConsoleProgress) Banner(title string) {
	rule := "============================================================"
	fmt.Fprintln(p.w, rule)
	bannerColor.Fprintln(p.w, title)
	fmt.Fprintln(p.w, rule)
}

func (p *ConsoleProgress) StageStarted(step, total int, title string) {
	stageColor.Fprintf(p.w, "\n[%d/%d] %s\n", step, total, title)
}

func (p *ConsoleProgress) DatasetLoaded(ds *behavior.Dataset) {
	fmt.Fprintln(p.w, "Data loaded")
	fmt.Fprintf(p.w, "Rows: %d, core columns: %d\n", ds.Len(), len(behavior.CoreColumns))
}

func (p *ConsoleProgress) CleanedWritten(path string, columns int) {
	fmt.Fprintf(p.w, "Cleaned data saved: %s\n", path)
	fmt.Fprintf(p.w, "Columns kept: %d\n\n", columns)
}

func (p *ConsoleProgress) ThresholdsComputed(t behavior.Thresholds) {
	WriteThresholds(p.w, t)
}

func (p *ConsoleProgress) CohortsCompared(a *behavior.Analysis) {
	WriteComparison(p.w, a)
}

// OutputWritten prints the file name, with its size when the file can be
// inspected.
func (p *ConsoleProgress) OutputWritten(path string) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(p.w, "Saved: %s\n", filepath.Base(path))
		return
	}
	fmt.Fprintf(p.w, "Saved: %s (%s)\n", filepath.Base(path), humanize.Bytes(uint64(info.Size())))
}
