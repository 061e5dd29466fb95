// Package metrics implements per-step trajectory observations for cohort
// simulations. State vectors follow the model layout: FFM for every
// individual, then FM.
package metrics

import (
	"github.com/avelarde/growthsim/internal/dynamo"
)

// WeightChange tracks mean body-weight change between the first and last
// observed states, kg.
type WeightChange struct {
	name    string
	n       int
	first   float64
	last    float64
	samples int
}

func NewWeightChange(n int) *WeightChange {
	return &WeightChange{name: "weight_change", n: n}
}

func (w *WeightChange) Name() string { return w.name }

func (w *WeightChange) Observe(x dynamo.State, t float64) {
	bw := meanBodyWeight(x, w.n)
	if w.samples == 0 {
		w.first = bw
	}
	w.last = bw
	w.samples++
}

func (w *WeightChange) Value() float64 {
	if w.samples == 0 {
		return 0
	}
	return w.last - w.first
}

func (w *WeightChange) Reset() {
	w.first = 0
	w.last = 0
	w.samples = 0
}

// meanBodyWeight sums every mass component and divides by cohort size;
// body weight is FFM+FM so the flattened state sums directly.
func meanBodyWeight(x dynamo.State, n int) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(n)
}
