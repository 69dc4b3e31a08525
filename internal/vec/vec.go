// Package vec provides the 2D vector value used for positions, velocities
// and accelerations.
//
// Vec2 is a plain value: every operation returns a new vector and leaves its
// operands untouched. Arithmetic is delegated to gonum's spatial/r2 so the
// two types convert freely.
package vec

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a point or displacement in the plane.
type Vec2 r2.Vec

// Zero is the additive identity.
var Zero = Vec2{}

func New(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2(r2.Add(r2.Vec(v), r2.Vec(o))) }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2(r2.Sub(r2.Vec(v), r2.Vec(o))) }

func (v Vec2) Scale(f float64) Vec2 { return Vec2(r2.Scale(f, r2.Vec(v))) }

func (v Vec2) Dot(o Vec2) float64 { return r2.Dot(r2.Vec(v), r2.Vec(o)) }

// NormSq is the dot product of v with itself.
func (v Vec2) NormSq() float64 { return r2.Norm2(r2.Vec(v)) }

// Norm is the Euclidean length. The zero vector has norm 0.
func (v Vec2) Norm() float64 { return r2.Norm(r2.Vec(v)) }

// IsFinite reports whether both components are finite. A non-finite vector
// means an earlier step divided by a zero separation.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string {
	return fmt.Sprintf("%v, %v", v.X, v.Y)
}

// Sum folds vs with Add starting from Zero.
func Sum(vs ...Vec2) Vec2 {
	s := Zero
	for _, v := range vs {
		s = s.Add(v)
	}
	return s
}
