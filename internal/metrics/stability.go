package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/sim"
)

// Bounded is the fraction of observed frames in which every body stays within
// radius of the origin.
type Bounded struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewBounded(radius float64) *Bounded {
	return &Bounded{
		name:   "bounded",
		radius: radius,
	}
}

func (s *Bounded) Name() string {
	return s.name
}

func (s *Bounded) Observe(f sim.Frame) {
	s.samples++
	for _, b := range f.Bodies {
		if b.Pos.Norm() > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Bounded) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Bounded) Reset() {
	s.violations = 0
	s.samples = 0
}

// MinSeparation is the closest distance between any two bodies seen so far.
// It is +Inf until a frame with at least two bodies has been observed.
type MinSeparation struct {
	min     float64
	samples int
}

func NewMinSeparation() *MinSeparation { return &MinSeparation{} }

func (m *MinSeparation) Name() string { return "min_separation" }

func (m *MinSeparation) Observe(f sim.Frame) {
	for i := range f.Bodies {
		for j := i + 1; j < len(f.Bodies); j++ {
			d := f.Bodies[i].Pos.Sub(f.Bodies[j].Pos).Norm()
			if m.samples == 0 || d < m.min {
				m.min = d
			}
			m.samples++
		}
	}
}

func (m *MinSeparation) Value() float64 {
	if m.samples == 0 {
		return math.Inf(1)
	}
	return m.min
}

func (m *MinSeparation) Reset() {
	m.min = 0
	m.samples = 0
}

// Defaults is the metric set attached to every CLI run.
func Defaults(g, radius float64) []sim.Metric {
	return []sim.Metric{
		NewEnergyDrift(g),
		NewMomentumDrift(),
		NewBounded(radius),
		NewMinSeparation(),
	}
}
