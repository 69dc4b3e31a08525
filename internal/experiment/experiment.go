package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
)

// Experiment is a validated configuration bound to a ready Simulator.
type Experiment struct {
	cfg       *config.Config
	bodies    []nbody.Body
	simulator *sim.Simulator
}

// New validates cfg and resolves its stepper and estimator in r. Default
// metrics are attached unless withMetrics is false.
func New(r *Registry, cfg *config.Config, withMetrics bool) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := r.GetStepper(cfg.Stepper)
	if err != nil {
		return nil, err
	}
	est, err := r.GetEstimator(cfg.Estimator)
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:       cfg.Clone(),
		bodies:    cfg.BodySet(),
		simulator: sim.New(st, est),
	}
	if withMetrics {
		for _, m := range r.DefaultMetrics(cfg.G, Extent(e.bodies)) {
			e.simulator.AddMetric(m)
		}
	}
	return e, nil
}

func (e *Experiment) Run(ctx context.Context, sink sim.Sink) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.bodies, e.cfg.SimConfig(), sink)
}

// Start opens a step-by-step session, for callers that drive the loop.
func (e *Experiment) Start() (*sim.Session, error) {
	return e.simulator.Start(e.bodies, e.cfg.SimConfig())
}

// Job packages the experiment for sim.RunAll.
func (e *Experiment) Job(name string, sink sim.Sink) sim.Job {
	return sim.Job{
		Name:   name,
		Sim:    e.simulator,
		Bodies: e.bodies,
		Config: e.cfg.SimConfig(),
		Sink:   sink,
	}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Extent is the largest distance of any body from the center of mass.
func Extent(bodies []nbody.Body) float64 {
	if nbody.TotalMass(bodies) <= 0 {
		return 0
	}
	com := nbody.CenterOfMass(bodies)
	var r float64
	for _, b := range bodies {
		if d := b.Pos.Sub(com).Norm(); d > r {
			r = d
		}
	}
	return r
}
