package metrics

import (
	"math"

	"github.com/avelarde/growthsim/internal/dynamo"
)

// Plausibility reports the fraction of observations where every mass stayed
// finite, non-negative and under a threshold (kg per component).
type Plausibility struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewPlausibility(threshold float64) *Plausibility {
	return &Plausibility{name: "plausibility", threshold: threshold}
}

func (p *Plausibility) Name() string { return p.name }

func (p *Plausibility) Observe(x dynamo.State, t float64) {
	p.samples++
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > p.threshold {
			p.violations++
			break
		}
	}
}

func (p *Plausibility) Value() float64 {
	if p.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(p.violations)/float64(p.samples)
}

func (p *Plausibility) Reset() {
	p.violations = 0
	p.samples = 0
}
