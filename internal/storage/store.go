package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vec"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
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
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Timestamp   time.Time               `json:"timestamp"`
	Stepper     string                  `json:"stepper"`
	Estimator   string                  `json:"estimator"`
	Bodies      int                     `json:"bodies"`
	Steps       int                     `json:"steps"`
	Time        export.Float            `json:"time"`
	MinDt       export.Float            `json:"min_dt"`
	MaxDt       export.Float            `json:"max_dt"`
	EnergyDrift export.Float            `json:"energy_drift"`
	Metrics     map[string]export.Float `json:"metrics"`
	Config      *config.Config          `json:"config"`
}

// Result rebuilds the run summary stored in the metadata.
func (m *RunMetadata) Result() *sim.Result {
	return &sim.Result{
		StepsTaken:  m.Steps,
		Time:        float64(m.Time),
		MinDt:       float64(m.MinDt),
		MaxDt:       float64(m.MaxDt),
		EnergyDrift: float64(m.EnergyDrift),
		Metrics:     export.Float64s(m.Metrics),
	}
}

// Save writes metadata.json and trajectory.csv into a new run directory and
// returns its id. Non-finite energies and metrics are stored as null. The
// directory is removed again if anything fails.
func (s *Store) Save(name string, cfg *config.Config, result *sim.Result, snaps []sim.Snapshot) (id string, err error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	meta := RunMetadata{
		ID:          runID,
		Name:        name,
		Timestamp:   now,
		Stepper:     cfg.Stepper,
		Estimator:   cfg.Estimator,
		Bodies:      len(cfg.Bodies),
		Steps:       result.StepsTaken,
		Time:        export.Float(result.Time),
		MinDt:       export.Float(result.MinDt),
		MaxDt:       export.Float(result.MaxDt),
		EnergyDrift: export.Float(result.EnergyDrift),
		Metrics:     export.Floats(result.Metrics),
		Config:      cfg,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), snaps); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeTrajectory(path string, snaps []sim.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if len(snaps) > 0 {
		header := []string{"step", "time"}
		for i := range snaps[0].Positions {
			header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}

	for _, snap := range snaps {
		row := []string{strconv.Itoa(snap.Step), strconv.FormatFloat(snap.Time, 'g', -1, 64)}
		for _, p := range snap.Positions {
			row = append(row, strconv.FormatFloat(p.X, 'g', -1, 64), strconv.FormatFloat(p.Y, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads the snapshots saved with a run.
func (s *Store) LoadTrajectory(runID string) ([]sim.Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Snapshot{}, nil
	}

	snaps := make([]sim.Snapshot, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 2 || len(record)%2 != 0 {
			return nil, fmt.Errorf("%s: row %d has %d fields", runID, i+1, len(record))
		}

		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", runID, i+1, err)
		}
		vals := make([]float64, len(record)-1)
		for j, field := range record[1:] {
			if vals[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", runID, i+1, err)
			}
		}

		pos := make([]vec.Vec2, 0, len(vals)/2)
		for j := 1; j+1 < len(vals); j += 2 {
			pos = append(pos, vec.New(vals[j], vals[j+1]))
		}
		snaps = append(snaps, sim.Snapshot{Step: step, Time: vals[0], Positions: pos})
	}

	return snaps, nil
}
