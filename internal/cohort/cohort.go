// Package cohort defines the population input vectors for a simulation:
// per-individual age, sex, body composition and BMI classification.
package cohort

import (
	"errors"
	"fmt"

	"github.com/avelarde/growthsim/internal/curves"
)

var (
	// ErrEmpty indicates a cohort with no individuals.
	ErrEmpty = errors.New("cohort: empty cohort")

	// ErrLengthMismatch indicates input vectors of unequal length.
	ErrLengthMismatch = errors.New("cohort: input vectors have different lengths")

	// ErrSexRange indicates a sex blend weight outside [0, 1].
	ErrSexRange = errors.New("cohort: sex must lie in [0, 1]")

	// ErrBadCategory indicates an unknown BMI category.
	ErrBadCategory = errors.New("cohort: unknown BMI category")
)

// Cohort holds equal-length per-individual vectors. All vectors keep their
// length for the cohort's lifetime; individuals are addressed by index.
type Cohort struct {
	Age      []float64 // years
	Sex      []float64 // 0=male, 1=female; fractional values blend linearly
	FFM      []float64 // kg
	FM       []float64 // kg
	Category []curves.BMICategory
}

// New validates and assembles a cohort. A nil category slice defaults every
// individual to the normal-BMI branch. BMI classification is an input here,
// never derived.
func New(age, sex, ffm, fm []float64, category []curves.BMICategory) (*Cohort, error) {
	n := len(age)
	if n == 0 {
		return nil, ErrEmpty
	}
	if len(sex) != n || len(ffm) != n || len(fm) != n {
		return nil, fmt.Errorf("%w: age=%d sex=%d ffm=%d fm=%d",
			ErrLengthMismatch, n, len(sex), len(ffm), len(fm))
	}
	if category == nil {
		category = make([]curves.BMICategory, n)
		for i := range category {
			category[i] = curves.Normal
		}
	}
	if len(category) != n {
		return nil, fmt.Errorf("%w: age=%d category=%d", ErrLengthMismatch, n, len(category))
	}

	for i, s := range sex {
		if s < 0 || s > 1 {
			return nil, fmt.Errorf("%w: individual %d has sex %f", ErrSexRange, i, s)
		}
	}
	for i, c := range category {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: individual %d has category %d", ErrBadCategory, i, int(c))
		}
	}

	return &Cohort{Age: age, Sex: sex, FFM: ffm, FM: fm, Category: category}, nil
}

// Len returns the number of individuals.
func (c *Cohort) Len() int { return len(c.Age) }
