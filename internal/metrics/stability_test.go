package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/vec"
)

func TestBounded(t *testing.T) {
	m := NewBounded(5)
	if m.Value() != 1 {
		t.Error("expected 1 with no samples")
	}

	m.Observe(frame(nbody.New(1, vec.New(1, 1), vec.Zero)))
	m.Observe(frame(nbody.New(1, vec.New(1, 1), vec.Zero), nbody.New(1, vec.New(6, 0), vec.Zero)))

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 1 {
		t.Error("expected 1 after reset")
	}
}

func TestMinSeparation(t *testing.T) {
	m := NewMinSeparation()
	if !math.IsInf(m.Value(), 1) {
		t.Errorf("expected +Inf before any pair, got %v", m.Value())
	}

	m.Observe(frame(nbody.New(1, vec.New(1, 1), vec.Zero)))
	if !math.IsInf(m.Value(), 1) {
		t.Errorf("a lone body has no separation, got %v", m.Value())
	}

	m.Observe(frame(
		nbody.New(1, vec.New(0, 0), vec.Zero),
		nbody.New(1, vec.New(3, 4), vec.Zero),
		nbody.New(1, vec.New(0, 10), vec.Zero),
	))
	if m.Value() != 5 {
		t.Errorf("expected 5, got %v", m.Value())
	}

	m.Observe(frame(
		nbody.New(1, vec.New(0, 0), vec.Zero),
		nbody.New(1, vec.New(0, 2), vec.Zero),
	))
	if m.Value() != 2 {
		t.Errorf("expected 2, got %v", m.Value())
	}

	m.Observe(frame(nbody.New(1, vec.Zero, vec.Zero)))
	if m.Value() != 2 {
		t.Errorf("single body frame changed minimum: %v", m.Value())
	}

	m.Reset()
	if !math.IsInf(m.Value(), 1) {
		t.Errorf("expected +Inf after reset, got %v", m.Value())
	}
}
