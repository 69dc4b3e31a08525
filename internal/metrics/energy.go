package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
)

// EnergyDrift tracks the largest relative deviation of total energy from the
// first observed frame.
type EnergyDrift struct {
	name          string
	g             float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		g:    g,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f sim.Frame) {
	energy := nbody.TotalEnergy(f.Bodies, e.g)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current and Initial expose the tracked energies for live displays.
func (e *EnergyDrift) Current() float64 { return e.currentEnergy }
func (e *EnergyDrift) Initial() float64 { return e.initialEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift tracks the largest absolute change of total momentum from
// the first observed frame. In the center-of-mass frame that is the largest
// total momentum seen.
type MomentumDrift struct {
	name     string
	initial  [2]float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(f sim.Frame) {
	p := nbody.Momentum(f.Bodies)
	if m.samples == 0 {
		m.initial = [2]float64{p.X, p.Y}
	}
	m.samples++

	drift := math.Hypot(p.X-m.initial[0], p.Y-m.initial[1])
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = [2]float64{}
	m.maxDrift = 0
	m.samples = 0
}
