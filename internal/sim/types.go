package sim

import (
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/vec"
)

// Snapshot is what a Sink receives at the configured cadence.
type Snapshot struct {
	Step      int
	Time      float64
	Positions []vec.Vec2
}

type Sink interface {
	Write(s Snapshot) error
}

type SinkFunc func(s Snapshot) error

func (f SinkFunc) Write(s Snapshot) error { return f(s) }

// Frame is the state after a completed iteration. Bodies is the current
// generation and is reused by the next iteration: read it, do not keep it.
type Frame struct {
	Step   int
	Time   float64
	Dt     float64
	Bodies []nbody.Body
}

type Observer interface {
	OnStep(f Frame)
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Config struct {
	MaxTimeStep   float64
	Steps         int
	WriteStep     int
	DistThreshold float64
	G             float64
	Workers       int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		MaxTimeStep:   0.01,
		Steps:         10000,
		WriteStep:     10,
		DistThreshold: 0.1,
		G:             nbody.DefaultG,
		Workers:       1,
		ValidateState: true,
	}
}

type Result struct {
	Bodies        []nbody.Body
	Time          float64
	StepsTaken    int
	Snapshots     int
	MinDt         float64
	MaxDt         float64
	InitialEnergy float64
	FinalEnergy   float64
	EnergyDrift   float64
	Metrics       map[string]float64
}
