// Package curves holds the age-parametrized curves of the pediatric
// energy-balance model: the three-term growth/EB impact curves and the
// piecewise-linear reference body-composition tables.
package curves

import "math"

// ThreeTerm is the shared shape of the pediatric growth and energy-balance
// curves: one exponential decay plus two Gaussian pulses, with per-individual
// coefficients. All times are ages in years.
type ThreeTerm struct {
	A, B, D          []float64
	TA, TB, TD       []float64
	TauA, TauB, TauD []float64
}

// Eval computes the curve for individual i at age t. Defined for all real t;
// far outside the pulses the terms decay toward zero.
func (c ThreeTerm) Eval(i int, t float64) float64 {
	gb := (t - c.TB[i]) / c.TauB[i]
	gd := (t - c.TD[i]) / c.TauD[i]
	return c.A[i]*math.Exp(-(t-c.TA[i])/c.TauA[i]) +
		c.B[i]*math.Exp(-0.5*gb*gb) +
		c.D[i]*math.Exp(-0.5*gd*gd)
}

// Len returns the number of individuals the curve is parametrized for.
func (c ThreeTerm) Len() int { return len(c.A) }
