package nbody

// Stepper advances one slot of a frozen generation by dt.
type Stepper interface {
	Name() string
	Step(gen []Body, self int, dt, g float64) Body
}

// Leapfrog is the kick-drift-kick scheme: half drift, full kick, half drift.
// The kick uses the half-drifted position of the body itself and the
// pre-step positions of every other body in gen.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog { return &Leapfrog{} }

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(gen []Body, self int, dt, g float64) Body {
	b := gen[self]
	half := 0.5 * dt

	b.Pos = b.Pos.Add(b.Vel.Scale(half))
	b.Vel = b.Vel.Sub(pullAt(b.Pos, gen, self).Scale(dt * g))
	b.Pos = b.Pos.Add(b.Vel.Scale(half))

	return b
}

// Euler is the explicit forward Euler update: the pull is taken at the old
// position, then position and velocity both move by dt using old values. It
// is not the drift-then-kick variant, which kicks at the new position and is
// symplectic. It drifts in energy and is only kept to compare against
// Leapfrog.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(gen []Body, self int, dt, g float64) Body {
	b := gen[self]
	acc := pullAt(b.Pos, gen, self).Scale(g)

	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	b.Vel = b.Vel.Sub(acc.Scale(dt))

	return b
}

// Advance writes the stepped state of every slot of prev into next. next and
// prev must have the same length and must not share a backing array.
func Advance(st Stepper, next, prev []Body, dt, g float64) {
	for i := range prev {
		next[i] = st.Step(prev, i, dt, g)
	}
}
