package storage

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/jvilchesf/ny-realstates/models"
)

// ChartWriter renders the monthly job-type matrix as a stacked bar
// chart, one bar per month with a segment per job type, saved as PNG.
type ChartWriter struct {
	path string
}

// NewChartWriter returns a renderer targeting path.
func NewChartWriter(path string) *ChartWriter {
	return &ChartWriter{path: path}
}

// Write renders and saves the chart. An empty matrix is an error, there
// is nothing to draw.
func (c *ChartWriter) Write(counts *models.MonthlyJobTypeCounts) error {
	if counts == nil || counts.Empty() {
		return fmt.Errorf("chart: no monthly counts to plot")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("chart: create output dir: %w", err)
	}

	p := plot.New()
	p.Title.Text = "Quantity of Jobs per Month by Type"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Month Approved"
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.Text = "Number of Jobs"
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	var prev *plotter.BarChart
	for i, jobType := range counts.JobTypes {
		bars, err := plotter.NewBarChart(plotter.Values(counts.Series(jobType)), vg.Points(18))
		if err != nil {
			return fmt.Errorf("chart: bars for %s: %w", jobType, err)
		}
		bars.LineStyle.Width = 0
		bars.Color = plotutil.Color(i)
		if prev != nil {
			bars.StackOn(prev)
		}
		p.Add(bars)
		p.Legend.Add(jobType, bars)
		prev = bars
	}

	p.Legend.Top = true
	p.NominalX(counts.Months...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	if err := p.Save(14*vg.Inch, 8*vg.Inch, c.path); err != nil {
		return fmt.Errorf("chart: save %q: %w", c.path, err)
	}
	return nil
}
