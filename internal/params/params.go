// Package params derives the sex-blended constants of the Hall pediatric
// energy-balance model. Every value follows the same blend rule,
// value = male*(1-sex) + female*sex, evaluated per individual.
package params

import "github.com/avelarde/growthsim/internal/curves"

// Constants shared by both sexes.
const (
	// RhoFM is the energy density of fat tissue, kcal/kg.
	RhoFM = 9400.0

	// DeltaMin and the table's DeltaMax bound adaptive thermogenesis.
	DeltaMin = 10.0

	// P and H shape the logistic decay of the thermogenesis term.
	P = 12.0
	H = 10.0
)

// Table holds every per-individual constant derived from sex at construction.
// It is computed once and read-only thereafter.
type Table struct {
	K        []float64
	DeltaMax []float64

	// Growth is the developmental growth energy cost; GrowthImpact is its
	// variant used for reference-baseline work; EBImpact is the
	// energy-balance impact curve.
	Growth       curves.ThreeTerm
	GrowthImpact curves.ThreeTerm
	EBImpact     curves.ThreeTerm

	// Linear reference fallback coefficients, kept for callers that want a
	// table-free approximation of the reference curves.
	FFMBeta0, FFMBeta1 []float64
	FMBeta0, FMBeta1   []float64
}

func blend(sex []float64, male, female float64) []float64 {
	out := make([]float64, len(sex))
	for i, s := range sex {
		out[i] = male*(1-s) + female*s
	}
	return out
}

// New computes the full constant table for a population given its sex blend
// weights (0=male, 1=female).
func New(sex []float64) *Table {
	return &Table{
		K:        blend(sex, 800, 700),
		DeltaMax: blend(sex, 19, 17),

		Growth: curves.ThreeTerm{
			A: blend(sex, 3.2, 2.3), B: blend(sex, 9.6, 8.4), D: blend(sex, 10.1, 1.1),
			TA: blend(sex, 4.7, 4.5), TB: blend(sex, 12.5, 11.7), TD: blend(sex, 15.0, 16.2),
			TauA: blend(sex, 2.5, 1.0), TauB: blend(sex, 1.0, 0.9), TauD: blend(sex, 1.5, 0.7),
		},
		GrowthImpact: curves.ThreeTerm{
			A: blend(sex, 3.2, 2.3), B: blend(sex, 9.6, 8.4), D: blend(sex, 10.0, 1.1),
			TA: blend(sex, 4.7, 4.5), TB: blend(sex, 12.5, 11.7), TD: blend(sex, 15.0, 16.0),
			TauA: blend(sex, 1.0, 1.0), TauB: blend(sex, 0.94, 0.94), TauD: blend(sex, 0.69, 0.69),
		},
		EBImpact: curves.ThreeTerm{
			A: blend(sex, 7.2, 16.5), B: blend(sex, 30, 47.0), D: blend(sex, 21, 41.0),
			TA: blend(sex, 5.6, 4.8), TB: blend(sex, 9.8, 9.1), TD: blend(sex, 15.0, 13.5),
			TauA: blend(sex, 15, 7.0), TauB: blend(sex, 1.5, 1.0), TauD: blend(sex, 2.0, 1.5),
		},

		FFMBeta0: blend(sex, 2.9, 3.8),
		FFMBeta1: blend(sex, 2.9, 2.3),
		FMBeta0:  blend(sex, 1.2, 0.56),
		FMBeta1:  blend(sex, 0.41, 0.74),
	}
}

// FFMLinear is the linear fallback for reference Fat-Free Mass at age t.
func (tb *Table) FFMLinear(i int, t float64) float64 {
	return tb.FFMBeta0[i] + tb.FFMBeta1[i]*t
}

// FMLinear is the linear fallback for reference Fat Mass at age t.
func (tb *Table) FMLinear(i int, t float64) float64 {
	return tb.FMBeta0[i] + tb.FMBeta1[i]*t
}
