package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/avelarde/growthsim/internal/child"
)

func TestMeanSeries(t *testing.T) {
	rows := [][]float64{
		{10, 12, 14},
		{20, 22, 24},
	}
	got := MeanSeries(rows)
	want := []float64{15, 17, 19}
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for k := range want {
		if math.Abs(got[k]-want[k]) > 1e-12 {
			t.Errorf("mean[%d] = %v, want %v", k, got[k], want[k])
		}
	}
	if MeanSeries(nil) != nil {
		t.Error("empty input should yield nil")
	}
}

func TestPlotIndividualRange(t *testing.T) {
	tr := &child.Trajectory{
		Time:       []float64{0, 1},
		Age:        [][]float64{{10, 10.003}},
		FFM:        [][]float64{{25, 25.01}},
		FM:         [][]float64{{8, 8.01}},
		BodyWeight: [][]float64{{33, 33.02}},
	}
	if _, err := PlotIndividual(tr, 1); err == nil {
		t.Error("expected error for out-of-range individual")
	}
	s, err := PlotIndividual(tr, 0)
	if err != nil {
		t.Fatalf("PlotIndividual: %v", err)
	}
	if !strings.Contains(s, "individual 0") {
		t.Errorf("caption missing from plot:\n%s", s)
	}
}
