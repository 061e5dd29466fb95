package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt         = 1.0
	DefaultDays       = 365.0
	DefaultIntegrator = "rk4"
	DefaultLogisticK  = 1800.0
	DefaultLogisticA  = 1000.0
	DefaultLogisticB  = 0.05
)

// Scenario describes one complete simulation: the cohort, the intake mode
// and the integration setup.
type Scenario struct {
	Name        string       `yaml:"name"`
	Integrator  string       `yaml:"integrator"`
	Dt          float64      `yaml:"dt"`
	Days        float64      `yaml:"days"`
	CheckValues bool         `yaml:"check_values"`
	Workers     int          `yaml:"workers"`
	Cohort      CohortConfig `yaml:"cohort"`
	Intake      IntakeConfig `yaml:"intake"`
}

type CohortConfig struct {
	Age      []float64 `yaml:"age"`
	Sex      []float64 `yaml:"sex"`
	FFM      []float64 `yaml:"ffm"`
	FM       []float64 `yaml:"fm"`
	Category []int     `yaml:"category,omitempty"`
}

// IntakeConfig selects exactly one intake mode. "logistic" uses the Richards
// curve parameters; "table" uses the inline values matrix (rows at dt
// granularity, one column per individual); "reference" tabulates the model's
// own baseline intake over the scenario horizon.
type IntakeConfig struct {
	Mode     string         `yaml:"mode"`
	Logistic LogisticConfig `yaml:"logistic,omitempty"`
	Values   [][]float64    `yaml:"values,omitempty"`
}

type LogisticConfig struct {
	K  float64 `yaml:"k"`
	Q  float64 `yaml:"q"`
	A  float64 `yaml:"a"`
	B  float64 `yaml:"b"`
	Nu float64 `yaml:"nu"`
	C  float64 `yaml:"c"`
}

func DefaultScenario() *Scenario {
	return &Scenario{
		Name:       "default",
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Days:       DefaultDays,
		Cohort: CohortConfig{
			Age: []float64{10},
			Sex: []float64{0},
			FFM: []float64{25},
			FM:  []float64{8},
		},
		Intake: IntakeConfig{
			Mode: "logistic",
			Logistic: LogisticConfig{
				K: DefaultLogisticK, Q: 1, A: DefaultLogisticA,
				B: DefaultLogisticB, Nu: 1, C: 1,
			},
		},
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultScenario()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func Save(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
