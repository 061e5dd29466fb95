// Package experiment assembles scenarios into runnable models and drives
// complete simulation runs.
package experiment

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/avelarde/growthsim/internal/child"
	"github.com/avelarde/growthsim/internal/cohort"
	"github.com/avelarde/growthsim/internal/config"
	"github.com/avelarde/growthsim/internal/curves"
	"github.com/avelarde/growthsim/internal/intake"
)

// BuildCohort validates the scenario's population vectors.
func BuildCohort(s *config.Scenario) (*cohort.Cohort, error) {
	var cats []curves.BMICategory
	if s.Cohort.Category != nil {
		cats = make([]curves.BMICategory, len(s.Cohort.Category))
		for i, c := range s.Cohort.Category {
			cats[i] = curves.BMICategory(c)
		}
	}
	return cohort.New(s.Cohort.Age, s.Cohort.Sex, s.Cohort.FFM, s.Cohort.FM, cats)
}

// Build assembles a model from a scenario: cohort validation, intake-source
// selection and model construction, failing fast on any bad configuration.
func Build(s *config.Scenario) (*child.Model, error) {
	c, err := BuildCohort(s)
	if err != nil {
		return nil, err
	}

	src, err := buildIntake(s, c)
	if err != nil {
		return nil, err
	}

	return child.New(c, src, s.Dt, s.CheckValues)
}

func buildIntake(s *config.Scenario, c *cohort.Cohort) (intake.Source, error) {
	switch s.Intake.Mode {
	case "logistic":
		l := s.Intake.Logistic
		return intake.NewLogistic(l.K, l.Q, l.A, l.B, l.Nu, l.C)

	case "table":
		rows := len(s.Intake.Values)
		if rows == 0 {
			return nil, intake.ErrEmptyTable
		}
		cols := len(s.Intake.Values[0])
		m := mat.NewDense(rows, cols, nil)
		for r, row := range s.Intake.Values {
			if len(row) != cols {
				return nil, fmt.Errorf("intake: ragged values matrix at row %d", r)
			}
			m.SetRow(r, row)
		}
		return intake.NewTable(m, s.Dt)

	case "reference":
		m, err := child.ReferenceIntake(c, s.Days, s.Dt)
		if err != nil {
			return nil, err
		}
		return intake.NewTable(m, s.Dt)

	default:
		return nil, fmt.Errorf("unknown intake mode: %q", s.Intake.Mode)
	}
}

// Run builds the scenario, attaches default metrics and simulates it to
// completion, fanning out across workers when the scenario asks for them.
func Run(ctx context.Context, s *config.Scenario, reg *Registry) (*child.Trajectory, error) {
	m, err := Build(s)
	if err != nil {
		return nil, err
	}

	if s.Workers > 1 {
		newInteg, err := reg.GetIntegratorFactory(s.Integrator)
		if err != nil {
			return nil, err
		}
		return m.SimulateParallel(ctx, s.Days, s.Workers, newInteg)
	}

	integ, err := reg.GetIntegrator(s.Integrator)
	if err != nil {
		return nil, err
	}

	for _, mt := range reg.DefaultMetrics(m.Len()) {
		m.AddMetric(mt)
	}
	return m.Simulate(ctx, s.Days, integ)
}
