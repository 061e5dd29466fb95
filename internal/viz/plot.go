package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/avelarde/growthsim/internal/child"
)

const (
	plotWidth  = 70
	plotHeight = 12
)

// MeanSeries averages a per-individual series across the cohort at
// every stored step.
func MeanSeries(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	steps := len(rows[0])
	out := make([]float64, steps)
	for k := 0; k < steps; k++ {
		sum := 0.0
		for i := range rows {
			sum += rows[i][k]
		}
		out[k] = sum / float64(len(rows))
	}
	return out
}

// PlotSeries renders a single series as a terminal chart.
func PlotSeries(series []float64, caption string) string {
	if len(series) < 2 {
		return "(not enough points to plot)"
	}
	return asciigraph.Plot(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption))
}

// PlotTrajectory renders cohort-mean body weight, fat-free mass and fat
// mass charts for a finished run.
func PlotTrajectory(tr *child.Trajectory) string {
	var b strings.Builder
	b.WriteString(PlotSeries(MeanSeries(tr.BodyWeight), "mean body weight (kg)"))
	b.WriteString("\n\n")
	b.WriteString(PlotSeries(MeanSeries(tr.FFM), "mean fat-free mass (kg)"))
	b.WriteString("\n\n")
	b.WriteString(PlotSeries(MeanSeries(tr.FM), "mean fat mass (kg)"))
	b.WriteString("\n")
	return b.String()
}

// PlotIndividual renders one child's body weight against elapsed days.
func PlotIndividual(tr *child.Trajectory, i int) (string, error) {
	if i < 0 || i >= tr.Individuals() {
		return "", fmt.Errorf("individual %d out of range [0,%d)", i, tr.Individuals())
	}
	caption := fmt.Sprintf("body weight (kg), individual %d, final age %.1f y",
		i, tr.Age[i][len(tr.Age[i])-1])
	return PlotSeries(tr.BodyWeight[i], caption), nil
}
