package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"digihealth/domain/behavior"
	"digihealth/internal/analysis"
	"digihealth/internal/profiling"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const summaryTitle = "Social Media Behavior and Psychological State Analysis"

// WriteThresholds prints the derived thresholds the way the console run shows them.
func WriteThresholds(w io.Writer, t behavior.Thresholds) {
	fmt.Fprintln(w, "Key thresholds:")
	fmt.Fprintf(w, "  heavy usage threshold:   %.0f min (75th percentile)\n", t.Social)
	fmt.Fprintf(w, "  short sleep threshold:   %.1f hours (25th percentile)\n", t.Sleep)
	fmt.Fprintf(w, "  typical usage threshold: %.0f min (median)\n", t.MedianSocial)
}

// WriteComparison prints cohort sizes, per-metric means and the effect size.
func WriteComparison(w io.Writer, a *behavior.Analysis) {
	cmp := a.Comparison
	fmt.Fprintf(w, "High-risk group size: %d\n", cmp.HighRiskSize)
	fmt.Fprintf(w, "Low-risk group size:  %d\n", cmp.LowRiskSize)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metric comparison:")
	for _, m := range []behavior.MetricComparison{cmp.Stress, cmp.Anxiety, cmp.Mood} {
		fmt.Fprintf(w, "  %-14s high-risk: %s | low-risk: %s | difference: %s\n",
			m.Metric, FormatValue(m.HighRiskMean, 2), FormatValue(m.LowRiskMean, 2), FormatValue(m.Difference, 2))
	}
	fmt.Fprintf(w, "  effect size (Cohen's d): %s (%s)\n", FormatValue(cmp.CohensD, 2), cmp.Magnitude)
}

// WriteFinalSummary prints the closing block with the list of written files.
func WriteFinalSummary(w io.Writer, a *behavior.Analysis, outputs []string) {
	cmp := a.Comparison
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Analysis complete")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "High-risk group: %d users, stress level %s\n", cmp.HighRiskSize, FormatValue(cmp.Stress.HighRiskMean, 2))
	fmt.Fprintf(w, "Low-risk group:  %d users, stress level %s\n", cmp.LowRiskSize, FormatValue(cmp.Stress.LowRiskMean, 2))
	fmt.Fprintf(w, "Stress difference: %s points (effect size d=%s)\n", FormatValue(cmp.Stress.Difference, 2), FormatValue(cmp.CohensD, 2))
	if warnings := cmp.Warnings(); len(warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warning := range warnings {
			fmt.Fprintf(w, "- %s\n", warning)
		}
	}
	fmt.Fprintln(w, "\nGenerated files:")
	for _, out := range outputs {
		fmt.Fprintf(w, "- %s\n", out)
	}
	fmt.Fprintln(w, rule)
}

// SummaryWriter renders the analysis as a Markdown document and an HTML page
type SummaryWriter struct {
	dir      string
	name     string
	profiler *profiling.DataProfiler
}

// NewSummaryWriter creates a writer producing <dir>/<name>.md and <dir>/<name>.html
func NewSummaryWriter(dir, name string) *SummaryWriter {
	return &SummaryWriter{dir: dir, name: name, profiler: profiling.NewDataProfiler()}
}

// Name identifies the sink in logs.
func (s *SummaryWriter) Name() string { return "summary" }

// Publish writes both documents and returns their paths.
func (s *SummaryWriter) Publish(ctx context.Context, a *behavior.Analysis) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profiles, err := s.profiler.ProfileDataset(a.Dataset)
	if err != nil {
		return nil, fmt.Errorf("profile dataset: %w", err)
	}
	md := Markdown(a, profiles)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create summary directory: %w", err)
	}
	mdPath := filepath.Join(s.dir, s.name+".md")
	if err := os.WriteFile(mdPath, md, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", mdPath, err)
	}
	htmlPath := filepath.Join(s.dir, s.name+".html")
	if err := os.WriteFile(htmlPath, RenderHTML(md), 0o644); err != nil {
		return []string{mdPath}, fmt.Errorf("write %s: %w", htmlPath, err)
	}
	return []string{mdPath, htmlPath}, nil
}

// RenderHTML converts a Markdown summary to a standalone HTML page.
func RenderHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: summaryTitle,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(md, p, renderer)
}

// Markdown renders the analysis. Undefined statistics appear as n/a.
func Markdown(a *behavior.Analysis, profiles []profiling.ColumnProfile) []byte {
	var b bytes.Buffer
	t := a.Thresholds
	cmp := a.Comparison

	fmt.Fprintf(&b, "# %s\n\n", summaryTitle)
	fmt.Fprintf(&b, "Source: `%s` (%d rows)\n\n", a.Dataset.Source, a.Dataset.Len())

	b.WriteString("## Thresholds\n\n")
	b.WriteString("| Threshold | Value | Definition |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| Heavy usage | %.0f min | 75th percentile of %s |\n", t.Social, behavior.ColumnSocialMediaTime)
	fmt.Fprintf(&b, "| Short sleep | %.1f hours | 25th percentile of %s |\n", t.Sleep, behavior.ColumnSleepHours)
	fmt.Fprintf(&b, "| Typical usage | %.0f min | median of %s |\n", t.MedianSocial, behavior.ColumnSocialMediaTime)
	fmt.Fprintf(&b, "| Healthy sleep | %.1f hours | fixed minimum |\n\n", analysis.LowRiskMinSleepHours)

	b.WriteString("## Cohorts\n\n")
	fmt.Fprintf(&b, "- **%s** (n=%d): usage above %.0f min, sleep below %.1f hours and at least one negative interaction.\n",
		behavior.CohortHighRisk.Label(), cmp.HighRiskSize, t.Social, t.Sleep)
	fmt.Fprintf(&b, "- **%s** (n=%d): usage at most %.0f min, sleep of at least %.1f hours and no negative interactions.\n\n",
		behavior.CohortLowRisk.Label(), cmp.LowRiskSize, t.MedianSocial, analysis.LowRiskMinSleepHours)

	b.WriteString("## Comparison\n\n")
	b.WriteString("| Metric | High-risk mean | Low-risk mean | Difference |\n|---|---|---|---|\n")
	for _, m := range []behavior.MetricComparison{cmp.Stress, cmp.Anxiety, cmp.Mood} {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			m.Metric, FormatValue(m.HighRiskMean, 2), FormatValue(m.LowRiskMean, 2), FormatValue(m.Difference, 2))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Stress standard deviation: high-risk %s, low-risk %s, pooled %s.\n\n",
		FormatValue(cmp.HighRiskStressStd, 2), FormatValue(cmp.LowRiskStressStd, 2), FormatValue(cmp.PooledStressStd, 2))
	fmt.Fprintf(&b, "Effect size (Cohen's d): **%s** (%s)\n\n", FormatValue(cmp.CohensD, 2), cmp.Magnitude)

	if warnings := cmp.Warnings(); len(warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if len(profiles) > 0 {
		b.WriteString("## Column profiles\n\n")
		b.WriteString("| Column | Mean | Std | Min | Q25 | Median | Q75 | Max | Outliers |\n|---|---|---|---|---|---|---|---|---|\n")
		for _, p := range profiles {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %d |\n", p.Column,
				FormatValue(p.Mean, 2), FormatValue(p.StdDev, 2), FormatValue(p.Min, 2), FormatValue(p.Q25, 2),
				FormatValue(p.Median, 2), FormatValue(p.Q75, 2), FormatValue(p.Max, 2), p.Outliers)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Correlation matrix\n\n")
	b.WriteString("| |")
	for _, col := range a.Correlation.Columns {
		fmt.Fprintf(&b, " %s |", col)
	}
	b.WriteString("\n|---|")
	b.WriteString(strings.Repeat("---|", len(a.Correlation.Columns)))
	b.WriteString("\n")
	for i, col := range a.Correlation.Columns {
		fmt.Fprintf(&b, "| %s |", col)
		for j := range a.Correlation.Columns {
			fmt.Fprintf(&b, " %s |", FormatValue(a.Correlation.Values[i][j], 2))
		}
		b.WriteString("\n")
	}

	return b.Bytes()
}
