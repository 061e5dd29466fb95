package child

import (
	"context"
	"sync"

	"github.com/avelarde/growthsim/internal/dynamo"
	"github.com/avelarde/growthsim/internal/integrators"
)

// minChunk is the smallest cohort slice worth a goroutine of its own.
const minChunk = 16

// span exposes a contiguous range of the cohort as an independent ODE
// system. No equation couples individuals, so each range integrates alone.
type span struct {
	m      *Model
	lo, hi int
}

func (s span) Dim() int { return 2 * (s.hi - s.lo) }

func (s span) Derive(x dynamo.State, t float64) dynamo.State {
	n := s.hi - s.lo
	dx := make(dynamo.State, 2*n)
	for j := 0; j < n; j++ {
		i := s.lo + j
		age := s.m.coh.Age[i] + t/365.0
		dffm, dfm := s.m.rate(i, age, t, x[j], x[n+j])
		dx[j] = dffm
		dx[n+j] = dfm
	}
	return dx
}

// SimulateParallel is Simulate fanned out across contiguous cohort ranges.
// Each range owns its trajectory rows, so no locking is needed; results are
// bit-identical to the serial path with the same integrator. Integrators keep
// scratch buffers, so each chunk builds its own from newInteg; a nil factory
// means RK4. Metrics are not observed here; use Simulate when per-step
// observation matters.
func (m *Model) SimulateParallel(ctx context.Context, days float64, workers int, newInteg func() dynamo.Integrator) (*Trajectory, error) {
	nsims, err := m.validateHorizon(days)
	if err != nil {
		return nil, err
	}
	if newInteg == nil {
		newInteg = func() dynamo.Integrator { return integrators.NewRK4() }
	}

	tr := newTrajectory(m.n, nsims, m.dt)

	var mu sync.Mutex
	var firstErr error

	dynamo.ParallelFor(m.n, minChunk, workers, func(lo, hi int) {
		integ := newInteg()
		sys := span{m: m, lo: lo, hi: hi}

		n := hi - lo
		x := make(dynamo.State, 2*n)
		copy(x[:n], m.coh.FFM[lo:hi])
		copy(x[n:], m.coh.FM[lo:hi])
		m.record(tr, 0, lo, hi, x)

		for k := 1; k <= nsims; k++ {
			select {
			case <-ctx.Done():
				mu.Lock()
				if firstErr == nil {
					firstErr = &dynamo.SimulationError{Step: k, Time: float64(k-1) * m.dt, Wrapped: ctx.Err()}
				}
				mu.Unlock()
				return
			default:
			}

			x = integ.Step(sys, x, float64(k-1)*m.dt, m.dt)
			m.record(tr, k, lo, hi, x)
		}
	})

	if firstErr != nil {
		return nil, firstErr
	}
	if m.check {
		tr.Valid = m.scan(tr)
	}
	return tr, nil
}
