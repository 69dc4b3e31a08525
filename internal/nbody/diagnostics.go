package nbody

import "github.com/san-kum/gravsim/internal/vec"

// TotalEnergy is the kinetic energy of every body plus the potential energy
// of every unordered pair, each pair counted once.
func TotalEnergy(bodies []Body, g float64) float64 {
	ke, pe := 0.0, 0.0
	for i, b := range bodies {
		ke += b.Kinetic()
		for j := i + 1; j < len(bodies); j++ {
			pe -= g * b.Mass * bodies[j].Mass / b.Pos.Sub(bodies[j].Pos).Norm()
		}
	}
	return ke + pe
}

// Momentum is the total linear momentum Σ m·v.
func Momentum(bodies []Body) vec.Vec2 {
	var p vec.Vec2
	for _, b := range bodies {
		p = p.Add(b.Momentum())
	}
	return p
}

// AngularMomentum is the z component of Σ m·(x × v) about the origin.
func AngularMomentum(bodies []Body) float64 {
	l := 0.0
	for _, b := range bodies {
		l += b.Mass * (b.Pos.X*b.Vel.Y - b.Pos.Y*b.Vel.X)
	}
	return l
}

// Positions copies the position of every body in order.
func Positions(bodies []Body) []vec.Vec2 {
	ps := make([]vec.Vec2, len(bodies))
	for i, b := range bodies {
		ps[i] = b.Pos
	}
	return ps
}
