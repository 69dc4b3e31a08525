package config

import (
	"math"
	"sort"

	"github.com/san-kum/gravsim/internal/nbody"
)

// figure-8 choreography (Chenciner-Montgomery) for G=1, rescaled in time to
// DefaultG.
var (
	f8x, f8y   = 0.97000436, -0.24308753
	f8vx, f8vy = -0.93240737, -0.86473146
	f8scale    = math.Sqrt(nbody.DefaultG)
)

func preset(steps, write int, maxDt, thr float64, bodies ...BodyConfig) *Config {
	cfg := DefaultConfig()
	cfg.NumberOfSteps = steps
	cfg.WriteStep = write
	cfg.MaxTimeStep = maxDt
	cfg.DistThreshold = thr
	cfg.Bodies = bodies
	return cfg
}

var Presets = map[string]*Config{
	"binary": preset(20000, 20, 0.01, 0.1,
		BodyConfig{Mass: 1, Pos: [2]float64{-0.5, 0}, Vel: [2]float64{0, -0.05}},
		BodyConfig{Mass: 1, Pos: [2]float64{0.5, 0}, Vel: [2]float64{0, 0.05}},
	),
	"sun_planet": preset(10000, 10, 0.01, 0.1,
		BodyConfig{Mass: 1, Pos: [2]float64{0, 0}, Vel: [2]float64{0, 0}},
		BodyConfig{Mass: 1e-6, Pos: [2]float64{1, 0}, Vel: [2]float64{0, 0.1}},
	),
	"figure8": preset(20000, 20, 0.01, 0.05,
		BodyConfig{Mass: 1, Pos: [2]float64{f8x, f8y}, Vel: [2]float64{-f8vx / 2 * f8scale, -f8vy / 2 * f8scale}},
		BodyConfig{Mass: 1, Pos: [2]float64{-f8x, -f8y}, Vel: [2]float64{-f8vx / 2 * f8scale, -f8vy / 2 * f8scale}},
		BodyConfig{Mass: 1, Pos: [2]float64{0, 0}, Vel: [2]float64{f8vx * f8scale, f8vy * f8scale}},
	),
	"trio": preset(50000, 50, 0.01, 0.05,
		BodyConfig{Mass: 1, Pos: [2]float64{0, 0}, Vel: [2]float64{0, 0}},
		BodyConfig{Mass: 0.01, Pos: [2]float64{1, 0}, Vel: [2]float64{0, 0.1}},
		BodyConfig{Mass: 0.001, Pos: [2]float64{-2.5, 0}, Vel: [2]float64{0, -0.063}},
	),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
