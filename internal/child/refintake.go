package child

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/avelarde/growthsim/internal/cohort"
	"github.com/avelarde/growthsim/internal/curves"
	"github.com/avelarde/growthsim/internal/dynamo"
	"github.com/avelarde/growthsim/internal/params"
)

// ReferenceIntake tabulates the model's baseline expected intake for a
// cohort over a horizon, at dt-day granularity. The result has
// floor(days/dt)+1 rows and one column per individual, ready to serve as a
// tabulated intake matrix covering the same horizon.
func ReferenceIntake(c *cohort.Cohort, days, dt float64) (*mat.Dense, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("child: %w (dt=%f)", dynamo.ErrNonPositiveStep, dt)
	}
	if days <= 0 {
		return nil, fmt.Errorf("child: %w (days=%f)", dynamo.ErrNonPositiveHorizon, days)
	}

	tab := params.New(c.Sex)
	ref := curves.NewReference(c.Sex, c.Category)
	nsteps := int(math.Floor(days / dt))

	out := mat.NewDense(nsteps+1, c.Len(), nil)
	for k := 0; k <= nsteps; k++ {
		t := float64(k) * dt
		for i := 0; i < c.Len(); i++ {
			age := c.Age[i] + t/365.0
			out.Set(k, i, intakeReference(tab, ref, i, age))
		}
	}
	return out, nil
}
