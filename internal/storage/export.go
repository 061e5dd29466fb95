package storage

import (
	"encoding/json"
	"os"

	"github.com/avelarde/growthsim/internal/child"
)

type ExportData struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	ModelType  string             `json:"model_type"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Days       float64            `json:"days"`
	Steps      int                `json:"steps"`
	Valid      bool               `json:"valid"`
	Time       []float64          `json:"time"`
	Age        [][]float64        `json:"age"`
	FFM        [][]float64        `json:"fat_free_mass"`
	FM         [][]float64        `json:"fat_mass"`
	BodyWeight [][]float64        `json:"body_weight"`
	Metrics    map[string]float64 `json:"metrics"`
}

func exportData(meta *RunMetadata, tr *child.Trajectory) ExportData {
	return ExportData{
		ID:         meta.ID,
		Scenario:   meta.Scenario,
		ModelType:  tr.ModelType,
		Integrator: meta.Integrator,
		Dt:         meta.Dt,
		Days:       meta.Days,
		Steps:      tr.Steps(),
		Valid:      tr.Valid,
		Time:       tr.Time,
		Age:        tr.Age,
		FFM:        tr.FFM,
		FM:         tr.FM,
		BodyWeight: tr.BodyWeight,
		Metrics:    meta.Metrics,
	}
}

func ExportJSON(path string, meta *RunMetadata, tr *child.Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(meta, tr))
}

func ExportJSONStdout(meta *RunMetadata, tr *child.Trajectory) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(meta, tr))
}
