package metrics

import (
	"github.com/avelarde/growthsim/internal/dynamo"
)

// GrowthVelocity tracks the peak mean weight velocity observed between
// consecutive steps, kg per year.
type GrowthVelocity struct {
	name    string
	n       int
	prevT   float64
	prevBW  float64
	peak    float64
	samples int
}

func NewGrowthVelocity(n int) *GrowthVelocity {
	return &GrowthVelocity{name: "growth_velocity", n: n}
}

func (g *GrowthVelocity) Name() string { return g.name }

func (g *GrowthVelocity) Observe(x dynamo.State, t float64) {
	bw := meanBodyWeight(x, g.n)
	if g.samples > 0 && t > g.prevT {
		v := (bw - g.prevBW) / ((t - g.prevT) / 365.0)
		if v > g.peak {
			g.peak = v
		}
	}
	g.prevT = t
	g.prevBW = bw
	g.samples++
}

func (g *GrowthVelocity) Value() float64 { return g.peak }

func (g *GrowthVelocity) Reset() {
	g.prevT = 0
	g.prevBW = 0
	g.peak = 0
	g.samples = 0
}
