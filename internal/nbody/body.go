package nbody

import (
	"math"

	"github.com/san-kum/gravsim/internal/vec"
)

// DefaultG is the gravitational constant of the reference configuration.
const DefaultG = 0.01

type Body struct {
	Mass float64
	Pos  vec.Vec2
	Vel  vec.Vec2
}

func New(mass float64, pos, vel vec.Vec2) Body {
	return Body{Mass: mass, Pos: pos, Vel: vel}
}

// Pull returns Σ r·(M/|r|³) over others, with r = b.Pos − other.Pos. The
// velocity change over dt is −dt·G·Pull.
func (b Body) Pull(others []Body) vec.Vec2 {
	return pullAt(b.Pos, others, -1)
}

// Energy is the kinetic energy of b minus its potential energy against each
// of others. Summing it over a whole system counts every pair twice; use
// TotalEnergy for the system energy.
func (b Body) Energy(others []Body, g float64) float64 {
	return b.Kinetic() - g*b.Mass*potentialAt(b.Pos, others, -1)
}

func (b Body) Kinetic() float64 {
	return 0.5 * b.Mass * b.Vel.NormSq()
}

func (b Body) Momentum() vec.Vec2 {
	return b.Vel.Scale(b.Mass)
}

func (b Body) IsFinite() bool {
	return b.Pos.IsFinite() && b.Vel.IsFinite() && !math.IsNaN(b.Mass) && !math.IsInf(b.Mass, 0)
}

func pullAt(pos vec.Vec2, gen []Body, skip int) vec.Vec2 {
	var s vec.Vec2
	for j, o := range gen {
		if j == skip {
			continue
		}
		r := pos.Sub(o.Pos)
		d := r.Norm()
		s = s.Add(r.Scale(o.Mass / (d * d * d)))
	}
	return s
}

func potentialAt(pos vec.Vec2, gen []Body, skip int) float64 {
	p := 0.0
	for j, o := range gen {
		if j == skip {
			continue
		}
		p += o.Mass / pos.Sub(o.Pos).Norm()
	}
	return p
}
