package cohort

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/avelarde/growthsim/internal/curves"
)

// SampleConfig describes a synthetic cohort: n children of a common age,
// body composition drawn around the sex-blended reference curves.
type SampleConfig struct {
	N           int
	Age         float64
	FemaleShare float64 // probability each child is female
	FFMSpread   float64 // standard deviation around reference FFM, kg
	FMSpread    float64 // standard deviation around reference FM, kg
	Category    curves.BMICategory
	Seed        uint64
}

// Sample draws a synthetic cohort. Identical configs produce identical
// cohorts; masses are floored at a fraction of reference so draws stay
// physically meaningful.
func Sample(cfg SampleConfig) (*Cohort, error) {
	if cfg.N <= 0 {
		return nil, fmt.Errorf("cohort: sample size must be positive, got %d", cfg.N)
	}
	if cfg.FemaleShare < 0 || cfg.FemaleShare > 1 {
		return nil, fmt.Errorf("cohort: female share must lie in [0, 1], got %f", cfg.FemaleShare)
	}
	cat := cfg.Category
	if cat == 0 {
		cat = curves.Normal
	}
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrBadCategory, int(cat))
	}

	src := rand.NewSource(cfg.Seed)
	rng := rand.New(src)

	age := make([]float64, cfg.N)
	sex := make([]float64, cfg.N)
	cats := make([]curves.BMICategory, cfg.N)
	for i := 0; i < cfg.N; i++ {
		age[i] = cfg.Age
		if rng.Float64() < cfg.FemaleShare {
			sex[i] = 1
		}
		cats[i] = cat
	}

	ref := curves.NewReference(sex, cats)
	ffm := make([]float64, cfg.N)
	fm := make([]float64, cfg.N)
	for i := 0; i < cfg.N; i++ {
		ffm[i] = draw(distuv.Normal{Mu: ref.FFM(i, cfg.Age), Sigma: cfg.FFMSpread, Src: src})
		fm[i] = draw(distuv.Normal{Mu: ref.FM(i, cfg.Age), Sigma: cfg.FMSpread, Src: src})
	}

	return New(age, sex, ffm, fm, cats)
}

func draw(dist distuv.Normal) float64 {
	v := dist.Rand()
	floor := 0.25 * dist.Mu
	if v < floor {
		return floor
	}
	return v
}
