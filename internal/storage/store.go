package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/avelarde/growthsim/internal/child"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	ModelType   string             `json:"model_type"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Days        float64            `json:"days"`
	Integrator  string             `json:"integrator"`
	Individuals int                `json:"individuals"`
	Valid       bool               `json:"valid"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save persists one run as metadata.json plus trajectory.csv. The CSV has a
// time column followed by age/ffm/fm/bw column groups, one group per
// individual, one row per time point.
func (s *Store) Save(scenario string, dt, days float64, integrator string, tr *child.Trajectory) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scenario:    scenario,
		ModelType:   tr.ModelType,
		Timestamp:   time.Now(),
		Dt:          dt,
		Days:        days,
		Integrator:  integrator,
		Individuals: tr.Individuals(),
		Valid:       tr.Valid,
		Metrics:     tr.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trajectory.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"time"}
	for i := 0; i < tr.Individuals(); i++ {
		header = append(header,
			fmt.Sprintf("age%d", i),
			fmt.Sprintf("ffm%d", i),
			fmt.Sprintf("fm%d", i),
			fmt.Sprintf("bw%d", i),
		)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for k := range tr.Time {
		row := []string{strconv.FormatFloat(tr.Time[k], 'f', 6, 64)}
		for i := 0; i < tr.Individuals(); i++ {
			row = append(row,
				strconv.FormatFloat(tr.Age[i][k], 'f', 6, 64),
				strconv.FormatFloat(tr.FFM[i][k], 'f', 6, 64),
				strconv.FormatFloat(tr.FM[i][k], 'f', 6, 64),
				strconv.FormatFloat(tr.BodyWeight[i][k], 'f', 6, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory rebuilds a saved trajectory from trajectory.csv. The
// column layout fixes the individual count as (columns-1)/4.
func (s *Store) LoadTrajectory(runID string) (*child.Trajectory, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("storage: run %s has no trajectory rows", runID)
	}

	cols := len(records[0])
	if (cols-1)%4 != 0 {
		return nil, fmt.Errorf("storage: run %s has malformed trajectory header (%d columns)", runID, cols)
	}
	n := (cols - 1) / 4
	steps := len(records) - 1

	tr := &child.Trajectory{
		Time:       make([]float64, steps),
		Age:        make([][]float64, n),
		FFM:        make([][]float64, n),
		FM:         make([][]float64, n),
		BodyWeight: make([][]float64, n),
		Valid:      true,
		ModelType:  child.ModelType,
	}
	for i := 0; i < n; i++ {
		tr.Age[i] = make([]float64, steps)
		tr.FFM[i] = make([]float64, steps)
		tr.FM[i] = make([]float64, steps)
		tr.BodyWeight[i] = make([]float64, steps)
	}

	for k := 0; k < steps; k++ {
		record := records[k+1]
		if len(record) != cols {
			return nil, fmt.Errorf("storage: run %s has ragged row %d", runID, k+1)
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, err
		}
		tr.Time[k] = t

		for i := 0; i < n; i++ {
			base := 1 + i*4
			vals := make([]float64, 4)
			for j := 0; j < 4; j++ {
				v, err := strconv.ParseFloat(record[base+j], 64)
				if err != nil {
					return nil, err
				}
				vals[j] = v
			}
			tr.Age[i][k] = vals[0]
			tr.FFM[i][k] = vals[1]
			tr.FM[i][k] = vals[2]
			tr.BodyWeight[i][k] = vals[3]
		}
	}

	if meta, err := s.Load(runID); err == nil {
		tr.Valid = meta.Valid
		tr.Metrics = meta.Metrics
	}

	return tr, nil
}
