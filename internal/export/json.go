package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
)

type ExportData struct {
	Stepper       string           `json:"stepper"`
	Estimator     string           `json:"estimator"`
	G             float64          `json:"g"`
	MaxTimeStep   float64          `json:"max_time_step"`
	DistThreshold float64          `json:"dist_threshold"`
	Masses        []float64        `json:"masses"`
	Steps         int              `json:"steps"`
	Time          Float            `json:"time"`
	EnergyDrift   Float            `json:"energy_drift"`
	Times         []Float          `json:"times"`
	Positions     [][][2]Float     `json:"positions"`
	Metrics       map[string]Float `json:"metrics"`
}

func NewExportData(cfg *config.Config, result *sim.Result, snaps []sim.Snapshot) ExportData {
	data := ExportData{
		Stepper:       cfg.Stepper,
		Estimator:     cfg.Estimator,
		G:             cfg.G,
		MaxTimeStep:   cfg.MaxTimeStep,
		DistThreshold: cfg.DistThreshold,
		Masses:        make([]float64, len(cfg.Bodies)),
		Times:         make([]Float, len(snaps)),
		Positions:     make([][][2]Float, len(snaps)),
	}
	for i, b := range cfg.Bodies {
		data.Masses[i] = b.Mass
	}
	for i, s := range snaps {
		data.Times[i] = Float(s.Time)
		row := make([][2]Float, len(s.Positions))
		for j, p := range s.Positions {
			row[j] = [2]Float{Float(p.X), Float(p.Y)}
		}
		data.Positions[i] = row
	}
	if result != nil {
		data.Steps = result.StepsTaken
		data.Time = Float(result.Time)
		data.EnergyDrift = Float(result.EnergyDrift)
		data.Metrics = Floats(result.Metrics)
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
