package report

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"digihealth/domain/behavior"
	"digihealth/internal"
	"digihealth/internal/analysis"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Chart file stems, joined to the configured prefix.
const (
	ChartStressComparison     = "stress_comparison"
	ChartAnxietyComparison    = "anxiety_comparison"
	ChartBehaviorDistribution = "behavior_distribution"
	ChartCorrelationHeatmap   = "correlation_heatmap"
)

const histogramBins = 30

var (
	stressColors  = [2]color.Color{color.RGBA{R: 0xff, G: 0x6b, B: 0x6b, A: 0xff}, color.RGBA{R: 0x48, G: 0xdb, B: 0xfb, A: 0xff}}
	anxietyColors = [2]color.Color{color.RGBA{R: 0xff, G: 0x9f, B: 0x43, A: 0xff}, color.RGBA{R: 0x1d, G: 0xd1, B: 0xa1, A: 0xff}}
)

// ChartRenderer draws the four PNG charts of a run
type ChartRenderer struct {
	dir    string
	prefix string
	dpi    float64
	logger *internal.Logger
}

// NewChartRenderer creates a renderer writing <dir>/<prefix><chart>.png at dpi
func NewChartRenderer(dir, prefix string, dpi float64) *ChartRenderer {
	return &ChartRenderer{
		dir:    dir,
		prefix: prefix,
		dpi:    dpi,
		logger: internal.DefaultLogger.WithField("component", "charts"),
	}
}

// WithLogger replaces the renderer's logger.
func (r *ChartRenderer) WithLogger(logger *internal.Logger) *ChartRenderer {
	r.logger = logger
	return r
}

// Name identifies the sink in logs.
func (r *ChartRenderer) Name() string { return "charts" }

// Path returns the file a chart is written to.
func (r *ChartRenderer) Path(chart string) string {
	return filepath.Join(r.dir, r.prefix+chart+".png")
}

// Publish renders every chart and returns the written paths in a fixed order.
func (r *ChartRenderer) Publish(ctx context.Context, a *behavior.Analysis) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}

	steps := []struct {
		name   string
		render func(*behavior.Analysis) (string, error)
	}{
		{ChartStressComparison, r.renderStress},
		{ChartAnxietyComparison, r.renderAnxiety},
		{ChartBehaviorDistribution, r.renderDistribution},
		{ChartCorrelationHeatmap, r.renderHeatmap},
	}

	paths := make([]string, 0, len(steps))
	for _, step := range steps {
		path, err := step.render(a)
		if err != nil {
			return paths, fmt.Errorf("render %s: %w", step.name, err)
		}
		r.logger.Debug("chart written: %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func (r *ChartRenderer) renderStress(a *behavior.Analysis) (string, error) {
	p, err := groupBarPlot(a, a.Comparison.Stress, stressColors)
	if err != nil {
		return "", err
	}
	p.Title.Text = "Comparison of Average Stress Levels\nBetween High-Risk and Low-Risk User Groups"
	p.Y.Label.Text = "Average Stress Level (Score, 5-9)"
	p.Y.Min, p.Y.Max = 0, 10

	path := r.Path(ChartStressComparison)
	return path, r.save(path, 10*vg.Inch, 6*vg.Inch, func(dc draw.Canvas) { p.Draw(dc) })
}

func (r *ChartRenderer) renderAnxiety(a *behavior.Analysis) (string, error) {
	m := a.Comparison.Anxiety
	p, err := groupBarPlot(a, m, anxietyColors)
	if err != nil {
		return "", err
	}
	p.Title.Text = "Comparison of Average Anxiety Levels\nBetween High-Risk and Low-Risk User Groups"
	p.Y.Label.Text = "Average Anxiety Level (Score)"
	top := math.Max(orZero(m.HighRiskMean), orZero(m.LowRiskMean)) * 1.3
	if top <= 0 {
		top = 10
	}
	p.Y.Min, p.Y.Max = 0, top

	path := r.Path(ChartAnxietyComparison)
	return path, r.save(path, 10*vg.Inch, 6*vg.Inch, func(dc draw.Canvas) { p.Draw(dc) })
}

// groupBarPlot draws one bar per cohort labelled with its mean. Undefined means
// are drawn at zero and labelled n/a.
func groupBarPlot(a *behavior.Analysis, m behavior.MetricComparison, colors [2]color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "User Group (Defined by Behavior Pattern)"

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(grid)

	means := [2]float64{m.HighRiskMean, m.LowRiskMean}
	labelXYs := make(plotter.XYs, 0, 2)
	labels := make([]string, 0, 2)
	for i, mean := range means {
		bar, err := plotter.NewBarChart(plotter.Values{orZero(mean)}, vg.Points(90))
		if err != nil {
			return nil, err
		}
		bar.XMin = float64(i)
		bar.Color = colors[i]
		bar.LineStyle.Width = vg.Points(1.5)
		p.Add(bar)

		labelXYs = append(labelXYs, plotter.XY{X: float64(i), Y: orZero(mean)})
		labels = append(labels, FormatValue(mean, 2))
	}

	values, err := plotter.NewLabels(plotter.XYLabels{XYs: labelXYs, Labels: labels})
	if err != nil {
		return nil, err
	}
	values.Offset = vg.Point{Y: vg.Points(4)}
	for i := range values.TextStyle {
		values.TextStyle[i].XAlign = text.XCenter
	}
	p.Add(values)

	p.NominalX(
		fmt.Sprintf("%s\n(n=%d)", behavior.CohortHighRisk.Label(), a.HighRisk.Size()),
		fmt.Sprintf("%s\n(n=%d)", behavior.CohortLowRisk.Label(), a.LowRisk.Size()),
	)
	return p, nil
}

func (r *ChartRenderer) renderDistribution(a *behavior.Analysis) (string, error) {
	t := a.Thresholds

	usage, usageTop, err := histogramPlot(a.Dataset.Column(behavior.ColumnSocialMediaTime), colornames.Skyblue)
	if err != nil {
		return "", err
	}
	usage.Title.Text = "Distribution of Social Media Usage Time\nwith Risk Thresholds"
	usage.X.Label.Text = "Social Media Usage Time (minutes)"
	if err := addThreshold(usage, usageTop, t.Social, colornames.Red, true,
		fmt.Sprintf("High-Risk Threshold: %.0f min (75th Percentile)", t.Social)); err != nil {
		return "", err
	}
	if err := addThreshold(usage, usageTop, t.MedianSocial, colornames.Orange, false,
		fmt.Sprintf("Low-Risk Threshold: %.0f min (Median)", t.MedianSocial)); err != nil {
		return "", err
	}
	usage.Legend.Top = true

	sleep, sleepTop, err := histogramPlot(a.Dataset.Column(behavior.ColumnSleepHours), colornames.Lightgreen)
	if err != nil {
		return "", err
	}
	sleep.Title.Text = "Distribution of Sleep Duration\nwith Risk Thresholds"
	sleep.X.Label.Text = "Sleep Duration (hours)"
	if err := addThreshold(sleep, sleepTop, t.Sleep, colornames.Red, true,
		fmt.Sprintf("High-Risk Threshold: %.1f hours (25th Percentile)", t.Sleep)); err != nil {
		return "", err
	}
	if err := addThreshold(sleep, sleepTop, analysis.LowRiskMinSleepHours, colornames.Orange, false,
		fmt.Sprintf("Low-Risk Threshold: %.1f hours (Recommended Minimum)", analysis.LowRiskMinSleepHours)); err != nil {
		return "", err
	}
	sleep.Legend.Top = true
	sleep.Legend.Left = true

	path := r.Path(ChartBehaviorDistribution)
	return path, r.save(path, 15*vg.Inch, 5*vg.Inch, func(dc draw.Canvas) {
		tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 2,
			PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2, PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2}
		canvases := plot.Align([][]*plot.Plot{{usage, sleep}}, tiles, dc)
		usage.Draw(canvases[0][0])
		sleep.Draw(canvases[0][1])
	})
}

// histogramPlot returns the plot and the tallest bin count.
func histogramPlot(values []float64, fill color.Color) (*plot.Plot, float64, error) {
	p := plot.New()
	p.Y.Label.Text = "Frequency (User Count)"
	p.Add(plotter.NewGrid())

	h, err := plotter.NewHist(plotter.Values(values), histogramBins)
	if err != nil {
		return nil, 0, err
	}
	h.FillColor = fill
	h.LineStyle.Width = vg.Points(0.5)
	p.Add(h)

	top := 1.0
	for _, bin := range h.Bins {
		top = math.Max(top, bin.Weight)
	}
	return p, top, nil
}

// addThreshold draws a vertical line at x from zero to top.
func addThreshold(p *plot.Plot, top, x float64, c color.Color, dashed bool, label string) error {
	line, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: top}})
	if err != nil {
		return err
	}
	line.Color = c
	if dashed {
		line.Width = vg.Points(2.5)
		line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	} else {
		line.Width = vg.Points(2)
		line.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
	}
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func (r *ChartRenderer) renderHeatmap(a *behavior.Analysis) (string, error) {
	m := a.Correlation
	n := len(m.Columns)

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	grid := correlationGrid{m: m}
	hm := plotter.NewHeatMap(grid, cmap.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = colornames.Lightgray

	p := plot.New()
	p.Title.Text = "Correlation Matrix: Behavior Indicators vs Psychological States"
	p.Add(hm)

	xys := make(plotter.XYs, 0, n*n)
	labels := make([]string, 0, n*n)
	for c := 0; c < n; c++ {
		for row := 0; row < n; row++ {
			xys = append(xys, plotter.XY{X: grid.X(c), Y: grid.Y(row)})
			labels = append(labels, FormatValue(grid.Z(c, row), 2))
		}
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return "", err
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].XAlign = text.XCenter
		annotations.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(annotations)

	xTicks := make([]plot.Tick, n)
	yTicks := make([]plot.Tick, n)
	for i, col := range m.Columns {
		xTicks[i] = plot.Tick{Value: float64(i), Label: col.String()}
		yTicks[i] = plot.Tick{Value: float64(n - 1 - i), Label: col.String()}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	path := r.Path(ChartCorrelationHeatmap)
	return path, r.save(path, 10*vg.Inch, 8*vg.Inch, func(dc draw.Canvas) { p.Draw(dc) })
}

// correlationGrid lays the matrix out with the first column at the top left.
type correlationGrid struct {
	m behavior.CorrelationMatrix
}

func (g correlationGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g correlationGrid) Z(c, r int) float64 {
	n := len(g.m.Columns)
	return g.m.Values[n-1-r][c]
}

func (g correlationGrid) X(c int) float64 { return float64(c) }

func (g correlationGrid) Y(r int) float64 { return float64(r) }

func (r *ChartRenderer) save(path string, w, h vg.Length, paint func(draw.Canvas)) error {
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(int(r.dpi)))
	paint(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
