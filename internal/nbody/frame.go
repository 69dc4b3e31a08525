package nbody

import (
	"errors"

	"github.com/san-kum/gravsim/internal/vec"
)

// ErrNoMass is returned when a body set has no bodies or no positive total
// mass, so its center of mass is undefined.
var ErrNoMass = errors.New("nbody: body set has no mass")

func TotalMass(bodies []Body) float64 {
	m := 0.0
	for _, b := range bodies {
		m += b.Mass
	}
	return m
}

// CenterOfMass is Σ(m·x)/Σm. It is not finite when TotalMass is zero.
func CenterOfMass(bodies []Body) vec.Vec2 {
	var mr vec.Vec2
	for _, b := range bodies {
		mr = mr.Add(b.Pos.Scale(b.Mass))
	}
	return mr.Scale(1 / TotalMass(bodies))
}

// CenterOfMassVelocity is Σ(m·v)/Σm. It is not finite when TotalMass is zero.
func CenterOfMassVelocity(bodies []Body) vec.Vec2 {
	return Momentum(bodies).Scale(1 / TotalMass(bodies))
}

// Normalize moves bodies, in place, into the frame where the center of mass
// sits at the origin and total momentum is zero.
func Normalize(bodies []Body) error {
	if len(bodies) == 0 || TotalMass(bodies) <= 0 {
		return ErrNoMass
	}

	cm := CenterOfMass(bodies)
	cmv := CenterOfMassVelocity(bodies)
	for i := range bodies {
		bodies[i].Pos = bodies[i].Pos.Sub(cm)
		bodies[i].Vel = bodies[i].Vel.Sub(cmv)
	}
	return nil
}
