package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
)

// Graph plots one series. Non-finite values are dropped.
func Graph(values []float64, width, height int, caption string) string {
	values = finiteOnly(values)
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values, asciigraph.Height(height), asciigraph.Width(width), asciigraph.Caption(caption))
}

// CoordinateGraph plots the x (or y) coordinate of every body against the
// snapshot index.
func CoordinateGraph(snaps []sim.Snapshot, useY bool, width, height int, caption string) string {
	if len(snaps) == 0 || len(snaps[0].Positions) == 0 {
		return ""
	}
	series := make([][]float64, len(snaps[0].Positions))
	for _, s := range snaps {
		for i, p := range s.Positions {
			if i >= len(series) {
				break
			}
			v := p.X
			if useY {
				v = p.Y
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			series[i] = append(series[i], v)
		}
	}
	for _, s := range series {
		if len(s) == 0 {
			return ""
		}
	}
	return asciigraph.PlotMany(series, asciigraph.Height(height), asciigraph.Width(width), asciigraph.Caption(caption))
}

// EnergyRecorder is an Observer that keeps the total energy and timestep of
// every iteration.
type EnergyRecorder struct {
	G      float64
	Energy []float64
	Dt     []float64
}

func (r *EnergyRecorder) OnStep(f sim.Frame) {
	r.Energy = append(r.Energy, nbody.TotalEnergy(f.Bodies, r.G))
	if f.Step > 0 {
		r.Dt = append(r.Dt, f.Dt)
	}
}

// RelativeDrift returns |E-E0|/|E0| for every recorded energy.
func (r *EnergyRecorder) RelativeDrift() []float64 {
	if len(r.Energy) == 0 || r.Energy[0] == 0 {
		return nil
	}
	e0 := r.Energy[0]
	out := make([]float64, len(r.Energy))
	for i, e := range r.Energy {
		out[i] = math.Abs(e-e0) / math.Abs(e0)
	}
	return out
}

func finiteOnly(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
