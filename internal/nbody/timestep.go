package nbody

import "math"

// MinSpeed is the speed at or below which a body is treated as stationary
// and puts no bound on the timestep.
const MinSpeed = 0x1p-1022 * 65536

// Estimator bounds how long body a may travel before it gets too close to b.
// ok is false when the pair does not constrain the step.
type Estimator interface {
	Name() string
	Estimate(a, b Body, threshold float64) (dt float64, ok bool)
}

// Separation bounds the step by the time a needs, at its current speed, to
// cover threshold times its current distance to b.
type Separation struct{}

func (Separation) Name() string { return "separation" }

func (Separation) Estimate(a, b Body, threshold float64) (float64, bool) {
	speed := a.Vel.Norm()
	if speed <= MinSpeed {
		return 0, false
	}
	return b.Pos.Sub(a.Pos).Norm() * threshold / speed, true
}

// ClosestApproach bounds the step by the time at which a, moving in a
// straight line, enters the sphere of radius threshold·|b−a| around b. Pairs
// that are separating or whose path misses the sphere are unbounded. A body
// already inside the sphere gets a zero bound.
type ClosestApproach struct{}

func (ClosestApproach) Name() string { return "closest-approach" }

func (ClosestApproach) Estimate(a, b Body, threshold float64) (float64, bool) {
	speed := a.Vel.Norm()
	if speed <= MinSpeed {
		return 0, false
	}

	diff := b.Pos.Sub(a.Pos)
	tc := diff.Dot(a.Vel) / a.Vel.NormSq()
	if tc <= 0 {
		return 0, false
	}

	r2 := threshold * threshold * diff.NormSq()
	d2 := a.Vel.Scale(tc).Sub(diff).NormSq()
	if r2 < d2 {
		return 0, false
	}

	return math.Max(tc-math.Sqrt(r2-d2)/speed, 0), true
}

// EstimateTimestep is the Separation bound of a against b.
func EstimateTimestep(a, b Body, threshold float64) (float64, bool) {
	return Separation{}.Estimate(a, b, threshold)
}

// Bound is one pairwise estimate. The zero value is "no bound".
type Bound struct {
	Dt float64
	Ok bool
}

// MinTimestep is the smallest of ceiling and every bound that is Ok.
func MinTimestep(ceiling float64, bounds ...Bound) float64 {
	dt := ceiling
	for _, b := range bounds {
		if b.Ok && b.Dt < dt {
			dt = b.Dt
		}
	}
	return dt
}

// GlobalTimestep evaluates est on every ordered pair of distinct slots of gen
// and returns the smallest bound, capped at ceiling.
func GlobalTimestep(gen []Body, ceiling, threshold float64, est Estimator) float64 {
	dt := ceiling
	for i := range gen {
		for j := range gen {
			if i == j {
				continue
			}
			if t, ok := est.Estimate(gen[i], gen[j], threshold); ok && t < dt {
				dt = t
			}
		}
	}
	return dt
}
