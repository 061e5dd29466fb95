package child

import (
	"context"
	"fmt"
	"math"

	"github.com/avelarde/growthsim/internal/dynamo"
	"github.com/avelarde/growthsim/internal/intake"
)

// Trajectory is the full output of a simulation: one row per individual, one
// column per time point, floor(days/dt)+1 points in total. BodyWeight is
// always FFM+FM, recomputed at every step, never integrated.
type Trajectory struct {
	Time       []float64   // days since start, shared across individuals
	Age        [][]float64 // years
	FFM        [][]float64 // kg
	FM         [][]float64 // kg
	BodyWeight [][]float64 // kg

	Metrics   map[string]float64
	Valid     bool
	ModelType string
}

// Steps returns the number of time points per individual.
func (tr *Trajectory) Steps() int { return len(tr.Time) }

// Individuals returns the cohort size of the trajectory.
func (tr *Trajectory) Individuals() int { return len(tr.FFM) }

func newTrajectory(n, nsims int, dt float64) *Trajectory {
	tr := &Trajectory{
		Time:       make([]float64, nsims+1),
		Age:        make([][]float64, n),
		FFM:        make([][]float64, n),
		FM:         make([][]float64, n),
		BodyWeight: make([][]float64, n),
		Valid:      true,
		ModelType:  ModelType,
	}
	// Time is filled here so chunked runners never write the shared grid.
	for k := range tr.Time {
		tr.Time[k] = float64(k) * dt
	}
	for i := 0; i < n; i++ {
		tr.Age[i] = make([]float64, nsims+1)
		tr.FFM[i] = make([]float64, nsims+1)
		tr.FM[i] = make([]float64, nsims+1)
		tr.BodyWeight[i] = make([]float64, nsims+1)
	}
	return tr
}

// InitialState flattens the cohort's starting composition into the model's
// state layout.
func (m *Model) InitialState() dynamo.State {
	x := make(dynamo.State, 2*m.n)
	copy(x[:m.n], m.coh.FFM)
	copy(x[m.n:], m.coh.FM)
	return x
}

// record writes the state for individuals [lo, hi) at step k. Age comes from
// the exact grid, not from accumulation.
func (m *Model) record(tr *Trajectory, k, lo, hi int, x dynamo.State) {
	n := hi - lo
	for j := 0; j < n; j++ {
		i := lo + j
		tr.FFM[i][k] = x[j]
		tr.FM[i][k] = x[n+j]
		tr.BodyWeight[i][k] = x[j] + x[n+j]
		tr.Age[i][k] = m.coh.Age[i] + float64(k)*m.dt/365.0
	}
}

func (m *Model) validateHorizon(days float64) (int, error) {
	if days <= 0 {
		return 0, fmt.Errorf("child: %w (days=%f)", dynamo.ErrNonPositiveHorizon, days)
	}
	nsims := int(math.Floor(days / m.dt))
	if tb, ok := m.source.(*intake.Table); ok {
		if err := tb.CheckHorizon(m.n, nsims); err != nil {
			return 0, err
		}
	}
	return nsims, nil
}

// Simulate integrates the cohort forward for the given horizon in days with
// the supplied integrator. The loop always runs exactly floor(days/dt) steps;
// context cancellation is the only early exit and it returns an error, never
// a truncated trajectory.
func (m *Model) Simulate(ctx context.Context, days float64, integ dynamo.Integrator) (*Trajectory, error) {
	nsims, err := m.validateHorizon(days)
	if err != nil {
		return nil, err
	}

	for _, mt := range m.metrics {
		mt.Reset()
	}

	tr := newTrajectory(m.n, nsims, m.dt)
	x := m.InitialState()
	m.record(tr, 0, 0, m.n, x)

	for k := 1; k <= nsims; k++ {
		t := float64(k-1) * m.dt

		select {
		case <-ctx.Done():
			return nil, &dynamo.SimulationError{Step: k, Time: t, State: x, Wrapped: ctx.Err()}
		default:
		}

		for _, mt := range m.metrics {
			mt.Observe(x, t)
		}

		x = integ.Step(m, x, t, m.dt)
		if len(x) != m.Dim() {
			return nil, &dynamo.SimulationError{Step: k, Time: t, State: x, Wrapped: dynamo.ErrDimensionMismatch}
		}
		m.record(tr, k, 0, m.n, x)
	}

	for _, mt := range m.metrics {
		mt.Observe(x, float64(nsims)*m.dt)
	}
	if len(m.metrics) > 0 {
		tr.Metrics = make(map[string]float64, len(m.metrics))
		for _, mt := range m.metrics {
			tr.Metrics[mt.Name()] = mt.Value()
		}
	}

	if m.check {
		tr.Valid = m.scan(tr)
	}
	return tr, nil
}

// scan reports whether every recorded mass is finite. Integration never
// aborts mid-run on a bad value; the flag is the caller's signal.
func (m *Model) scan(tr *Trajectory) bool {
	for i := 0; i < m.n; i++ {
		if !dynamo.State(tr.FFM[i]).IsValid() || !dynamo.State(tr.FM[i]).IsValid() {
			return false
		}
	}
	return true
}
