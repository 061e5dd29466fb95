package config

var Presets = map[string]*Scenario{
	"boy-logistic": {
		Name: "boy-logistic", Integrator: "rk4", Dt: 1, Days: 365,
		Cohort: CohortConfig{
			Age: []float64{10}, Sex: []float64{0},
			FFM: []float64{25}, FM: []float64{8},
		},
		Intake: IntakeConfig{
			Mode:     "logistic",
			Logistic: LogisticConfig{K: 1800, Q: 1, A: 1000, B: 0.05, Nu: 1, C: 1},
		},
	},
	"girl-logistic": {
		Name: "girl-logistic", Integrator: "rk4", Dt: 1, Days: 365,
		Cohort: CohortConfig{
			Age: []float64{10}, Sex: []float64{1},
			FFM: []float64{24}, FM: []float64{6},
		},
		Intake: IntakeConfig{
			Mode:     "logistic",
			Logistic: LogisticConfig{K: 1700, Q: 1, A: 950, B: 0.05, Nu: 1, C: 1},
		},
	},
	"siblings-reference": {
		Name: "siblings-reference", Integrator: "rk4", Dt: 1, Days: 730,
		CheckValues: true,
		Cohort: CohortConfig{
			Age: []float64{8, 8}, Sex: []float64{0, 1},
			FFM: []float64{20.5, 19.9}, FM: []float64{3.9, 4.9},
		},
		Intake: IntakeConfig{Mode: "reference"},
	},
	"classroom-reference": {
		Name: "classroom-reference", Integrator: "rk4", Dt: 1, Days: 1095,
		CheckValues: true, Workers: 4,
		Cohort: classroom(),
		Intake: IntakeConfig{Mode: "reference"},
	},
}

// classroom is a mixed cohort of six-year-olds started on the
// normal-BMI reference composition.
func classroom() CohortConfig {
	const n = 24
	c := CohortConfig{
		Age: make([]float64, n),
		Sex: make([]float64, n),
		FFM: make([]float64, n),
		FM:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		c.Age[i] = 6
		if i%2 == 1 {
			c.Sex[i] = 1
			c.FFM[i] = 15.61
			c.FM[i] = 3.92
		} else {
			c.FFM[i] = 17.06
			c.FM[i] = 3.49
		}
	}
	return c
}

func GetPreset(name string) *Scenario {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
