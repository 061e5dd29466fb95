package experiment

import (
	"context"
	"testing"

	"github.com/avelarde/growthsim/internal/config"
)

func TestRegistryIntegrators(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"rk4", "euler"} {
		integ, err := r.GetIntegrator(name)
		if err != nil {
			t.Errorf("GetIntegrator(%s): %v", name, err)
		}
		if integ == nil {
			t.Errorf("GetIntegrator(%s) returned nil", name)
		}
	}

	if _, err := r.GetIntegrator("leapfrog"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestBuildFromPresets(t *testing.T) {
	for name, s := range config.Presets {
		t.Run(name, func(t *testing.T) {
			m, err := Build(s)
			if err != nil {
				t.Fatalf("Build(%s): %v", name, err)
			}
			if m.Len() != len(s.Cohort.Age) {
				t.Errorf("model size = %d, want %d", m.Len(), len(s.Cohort.Age))
			}
		})
	}
}

func TestBuildRejectsUnknownIntakeMode(t *testing.T) {
	s := config.DefaultScenario()
	s.Intake.Mode = "telepathy"

	if _, err := Build(s); err == nil {
		t.Error("expected error for unknown intake mode")
	}
}

func TestRunProducesMetrics(t *testing.T) {
	s := *config.GetPreset("boy-logistic")
	s.Days = 30

	tr, err := Run(context.Background(), &s, NewRegistry())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if tr.Steps() != 31 {
		t.Errorf("steps = %d, want 31", tr.Steps())
	}
	for _, name := range []string{"weight_change", "growth_velocity", "plausibility"} {
		if _, ok := tr.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
}

func TestRunParallelScenario(t *testing.T) {
	s := *config.GetPreset("classroom-reference")
	s.Days = 30

	tr, err := Run(context.Background(), &s, NewRegistry())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tr.Individuals() != 24 {
		t.Errorf("individuals = %d, want 24", tr.Individuals())
	}
	if !tr.Valid {
		t.Error("reference-intake classroom run should be plausible")
	}
}

func TestRunParallelHonorsIntegrator(t *testing.T) {
	s := *config.GetPreset("classroom-reference")
	s.Days = 30
	s.Integrator = "euler"
	s.Workers = 4

	par, err := Run(context.Background(), &s, NewRegistry())
	if err != nil {
		t.Fatalf("parallel Run: %v", err)
	}

	ser := s
	ser.Workers = 0
	serial, err := Run(context.Background(), &ser, NewRegistry())
	if err != nil {
		t.Fatalf("serial Run: %v", err)
	}

	for i := 0; i < par.Individuals(); i++ {
		for k := range par.Time {
			if par.FFM[i][k] != serial.FFM[i][k] {
				t.Fatalf("FFM[%d][%d] = %v parallel, %v serial", i, k, par.FFM[i][k], serial.FFM[i][k])
			}
		}
	}
}

func TestRunParallelRejectsUnknownIntegrator(t *testing.T) {
	s := *config.GetPreset("classroom-reference")
	s.Days = 30
	s.Integrator = "leapfrog"
	s.Workers = 4

	if _, err := Run(context.Background(), &s, NewRegistry()); err == nil {
		t.Error("expected error for unknown integrator on the parallel path")
	}
}
