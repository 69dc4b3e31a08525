package sim

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/san-kum/gravsim/internal/vec"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := New(nil, nil).validateConfig(cfg); err != nil {
		t.Errorf("DefaultConfig is invalid: %v", err)
	}
	if cfg.G != 0.01 {
		t.Errorf("DefaultConfig G = %v, want 0.01", cfg.G)
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Time: 1.5, Step: 150, Wrapped: ErrInvalidState}
	expected := "step 150 (t=1.5000): sim: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("SimulationError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError does not unwrap")
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	_ = rec.Write(Snapshot{Step: 0, Time: 0, Positions: []vec.Vec2{vec.Zero}})
	_ = rec.Write(Snapshot{Step: 5, Time: 0.5})

	times := rec.Times()
	if len(times) != 2 || times[0] != 0 || times[1] != 0.5 {
		t.Errorf("Times() = %v", times)
	}
}

func TestTee(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	sink := Tee(a, nil, b)

	if err := sink.Write(Snapshot{Step: 1}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if len(a.Snapshots) != 1 || len(b.Snapshots) != 1 {
		t.Error("Tee did not write to every sink")
	}

	boom := errors.New("boom")
	c := NewRecorder()
	sink = Tee(SinkFunc(func(Snapshot) error { return boom }), c)
	if err := sink.Write(Snapshot{}); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if len(c.Snapshots) != 0 {
		t.Error("Tee kept writing after an error")
	}
}

func TestParallelFor(t *testing.T) {
	tests := []struct {
		n, minChunk, workers int
	}{
		{0, 8, 4},
		{5, 8, 4},
		{20, 8, 4},
		{100, 8, 4},
		{101, 1, 7},
		{64, 8, 1},
	}

	for _, tt := range tests {
		var mu sync.Mutex
		seen := make([]int, 0, tt.n)

		ParallelFor(tt.n, tt.minChunk, tt.workers, func(start, end int) {
			mu.Lock()
			defer mu.Unlock()
			for i := start; i < end; i++ {
				seen = append(seen, i)
			}
		})

		sort.Ints(seen)
		if len(seen) != tt.n {
			t.Errorf("n=%d: visited %d indices", tt.n, len(seen))
			continue
		}
		for i, v := range seen {
			if v != i {
				t.Errorf("n=%d: index %d visited as %d", tt.n, i, v)
				break
			}
		}
	}
}
