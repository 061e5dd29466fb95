// Package export renders finished growth trajectories as PNG charts.
package export

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/avelarde/growthsim/internal/child"
)

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorRed,
	chart.ColorGreen,
	chart.ColorOrange,
	chart.ColorCyan,
	{R: 128, G: 0, B: 128, A: 255},
}

func seriesColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

// WeightChart builds a body-weight-over-days chart with one series per
// child. Large cohorts get a single cohort-mean series instead so the
// legend stays readable.
func WeightChart(tr *child.Trajectory, title string) chart.Chart {
	var series []chart.Series
	if tr.Individuals() <= len(palette) {
		for i := 0; i < tr.Individuals(); i++ {
			series = append(series, chart.ContinuousSeries{
				Name:    fmt.Sprintf("child %d", i),
				XValues: tr.Time,
				YValues: tr.BodyWeight[i],
				Style:   chart.Style{StrokeColor: seriesColor(i), StrokeWidth: 2.0},
			})
		}
	} else {
		mean := make([]float64, tr.Steps())
		for k := range mean {
			sum := 0.0
			for i := 0; i < tr.Individuals(); i++ {
				sum += tr.BodyWeight[i][k]
			}
			mean[k] = sum / float64(tr.Individuals())
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("cohort mean (n=%d)", tr.Individuals()),
			XValues: tr.Time,
			YValues: mean,
			Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2.0},
		})
	}

	return chart.Chart{
		Title:  title,
		Width:  900,
		Height: 500,
		XAxis: chart.XAxis{
			Name: "elapsed days",
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name: "body weight (kg)",
		},
		Series: series,
	}
}

// CompositionChart plots one child's fat-free and fat mass over days.
func CompositionChart(tr *child.Trajectory, i int, title string) (chart.Chart, error) {
	if i < 0 || i >= tr.Individuals() {
		return chart.Chart{}, fmt.Errorf("individual %d out of range [0,%d)", i, tr.Individuals())
	}
	return chart.Chart{
		Title:  title,
		Width:  900,
		Height: 500,
		XAxis: chart.XAxis{
			Name: "elapsed days",
		},
		YAxis: chart.YAxis{
			Name: "mass (kg)",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "fat-free mass",
				XValues: tr.Time,
				YValues: tr.FFM[i],
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "fat mass",
				XValues: tr.Time,
				YValues: tr.FM[i],
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "body weight",
				XValues: tr.Time,
				YValues: tr.BodyWeight[i],
				Style:   chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2.0},
			},
		},
	}, nil
}

// WritePNG renders a chart to a PNG file.
func WritePNG(graph chart.Chart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
