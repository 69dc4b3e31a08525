package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/vec"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0)
	c.Set(3, 7)
	c.Set(-1, 0)
	c.Set(100, 100)

	if !c.IsSet(0, 0) || !c.IsSet(3, 7) {
		t.Error("expected dots to be set")
	}
	if c.IsSet(1, 0) {
		t.Error("unexpected dot")
	}
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected ⠁, got %q", c.Grid[0][0])
	}
	if c.Grid[1][1] != 0x2880 {
		t.Errorf("expected ⢀, got %q", c.Grid[1][1])
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("clear should reset dots")
	}
	if lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n"); len(lines) != 2 {
		t.Errorf("expected 2 rows, got %d", len(lines))
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 3)
	c.DrawLine(0, 0, 9, 9)

	for i := 0; i <= 9; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("expected diagonal dot at %d", i)
		}
	}
}

func TestViewport(t *testing.T) {
	c := NewCanvas(20, 10)
	v := Viewport{Center: vec.New(1, 1), Span: 4}

	x, y := v.Project(c, vec.New(1, 1))
	if x != 20 || y != 20 {
		t.Errorf("center should map to (20, 20), got (%d, %d)", x, y)
	}

	x, y = v.Project(c, vec.New(2, 2))
	if x != 30 || y != 10 {
		t.Errorf("expected (30, 10), got (%d, %d)", x, y)
	}

	if z := v.Zoom(0.5); z.Span != 2 || z.Center != v.Center {
		t.Errorf("unexpected zoom %+v", z)
	}
}

func TestFit(t *testing.T) {
	v := Fit(vec.New(-1, 0), vec.New(3, 1), vec.New(math.NaN(), 0))
	if v.Center != vec.New(1, 0.5) {
		t.Errorf("unexpected center %v", v.Center)
	}
	if math.Abs(v.Span-4.8) > 1e-12 {
		t.Errorf("expected span 4.8, got %v", v.Span)
	}

	if empty := Fit(); empty.Span != 1 {
		t.Errorf("expected unit span for no points, got %v", empty.Span)
	}
}

func TestDrawTrack(t *testing.T) {
	c := NewCanvas(20, 10)
	v := Viewport{Span: 4}
	c.DrawTrack(v, []vec.Vec2{vec.New(-1, 0), vec.New(1, 0), vec.New(math.Inf(1), 0), vec.New(1e12, 0)})

	for x := 10; x <= 30; x++ {
		if !c.IsSet(x, 20) {
			t.Errorf("expected dot at (%d, 20)", x)
		}
	}
}
