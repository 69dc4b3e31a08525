package vec

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

var samples = []Vec2{
	{0, 0},
	{1, 0},
	{0, -2.5},
	{3, 4},
	{-1.25, 7.5},
	{1e-3, -4e2},
	{123.456, -0.001},
}

var scalars = []float64{0, 1, -1, 0.5, 3.75, -1e3}

func near(a, b Vec2) bool {
	return scalar.EqualWithinAbsOrRel(a.X, b.X, 1e-12, 1e-12) &&
		scalar.EqualWithinAbsOrRel(a.Y, b.Y, 1e-12, 1e-12)
}

func TestVec2_Laws(t *testing.T) {
	for _, u := range samples {
		for _, v := range samples {
			if u.Add(v) != v.Add(u) {
				t.Errorf("%v + %v not commutative", u, v)
			}
			if u.Dot(v) != v.Dot(u) {
				t.Errorf("%v . %v not symmetric", u, v)
			}
			for _, w := range samples {
				if !near(u.Add(v).Add(w), u.Add(v.Add(w))) {
					t.Errorf("(%v + %v) + %v not associative", u, v, w)
				}
			}
			for _, a := range scalars {
				if !near(u.Add(v).Scale(a), u.Scale(a).Add(v.Scale(a))) {
					t.Errorf("%v * (%v + %v) not distributive", a, u, v)
				}
			}
		}
	}
}

func TestVec2_Norm(t *testing.T) {
	tests := []struct {
		v    Vec2
		want float64
	}{
		{Vec2{3, 4}, 5},
		{Vec2{1, 0}, 1},
		{Vec2{0, 0}, 0},
		{Vec2{-6, -8}, 10},
	}

	for _, tt := range tests {
		if got := tt.v.Norm(); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Norm(%v) = %v, want %v", tt.v, got, tt.want)
		}
		if got := tt.v.NormSq(); math.Abs(got-tt.want*tt.want) > 1e-12 {
			t.Errorf("NormSq(%v) = %v, want %v", tt.v, got, tt.want*tt.want)
		}
	}

	for _, v := range samples {
		n := v.Norm()
		if n < 0 {
			t.Errorf("Norm(%v) = %v is negative", v, n)
		}
		if (n == 0) != (v == Zero) {
			t.Errorf("Norm(%v) = %v, zero iff zero vector violated", v, n)
		}
	}
}

func TestVec2_Arithmetic(t *testing.T) {
	a := New(1, 2)
	b := New(4, 6)

	if got := a.Add(b); got != New(5, 8) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != New(3, 4) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != New(2, 4) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); got != 16 {
		t.Errorf("Dot = %v", got)
	}
	if a != New(1, 2) {
		t.Error("operands mutated")
	}
}

func TestSum(t *testing.T) {
	if got := Sum(); got != Zero {
		t.Errorf("empty Sum = %v, want zero", got)
	}
	if got := Sum(New(1, 1), New(2, -3), New(-0.5, 0.5)); got != New(2.5, -1.5) {
		t.Errorf("Sum = %v", got)
	}
}

func TestVec2_IsFinite(t *testing.T) {
	tests := []struct {
		name string
		v    Vec2
		want bool
	}{
		{"zero", Zero, true},
		{"normal", New(1e300, -3), true},
		{"nan", New(math.NaN(), 0), false},
		{"inf", New(0, math.Inf(-1)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.want {
				t.Errorf("IsFinite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec2_String(t *testing.T) {
	if got := New(1.5, -2).String(); got != "1.5, -2" {
		t.Errorf("String() = %q", got)
	}
}
