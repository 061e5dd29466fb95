package experiment

import (
	"fmt"

	"github.com/avelarde/growthsim/internal/dynamo"
	"github.com/avelarde/growthsim/internal/integrators"
	"github.com/avelarde/growthsim/internal/metrics"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

// GetIntegratorFactory returns the constructor itself, for runners that need
// one integrator instance per goroutine.
func (r *Registry) GetIntegratorFactory(name string) (func() dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	return names
}

// DefaultMetrics is the standard observation set for a cohort of n.
func (r *Registry) DefaultMetrics(n int) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewWeightChange(n),
		metrics.NewGrowthVelocity(n),
		metrics.NewPlausibility(300.0),
	}
}
