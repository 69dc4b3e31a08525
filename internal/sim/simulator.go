package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/nbody"
)

// minParallelChunk keeps tiny systems on one goroutine.
const minParallelChunk = 8

type Simulator struct {
	stepper   nbody.Stepper
	estimator nbody.Estimator
	metrics   []Metric
	observers []Observer
}

// New returns a Simulator. A nil stepper or estimator selects Leapfrog and
// Separation.
func New(stepper nbody.Stepper, estimator nbody.Estimator) *Simulator {
	if stepper == nil {
		stepper = nbody.NewLeapfrog()
	}
	if estimator == nil {
		estimator = nbody.Separation{}
	}
	return &Simulator{
		stepper:   stepper,
		estimator: estimator,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run normalizes bodies into the center-of-mass frame, writes the initial
// snapshot, then advances Steps-1 iterations, writing a snapshot after every
// iteration whose index is a multiple of WriteStep. bodies is not modified.
// A nil sink discards snapshots.
func (s *Simulator) Run(ctx context.Context, bodies []nbody.Body, cfg Config, sink Sink) (*Result, error) {
	sess, err := s.Start(bodies, cfg)
	if err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		MinDt:         math.Inf(1),
		InitialEnergy: nbody.TotalEnergy(sess.prev, cfg.G),
		Metrics:       make(map[string]float64),
	}

	emit := func() error {
		if sink == nil {
			result.Snapshots++
			return nil
		}
		if err := sink.Write(sess.Snapshot()); err != nil {
			return &SimulationError{Step: sess.step, Time: sess.t, Wrapped: err}
		}
		result.Snapshots++
		return nil
	}

	s.notify(sess.Frame())
	if err := emit(); err != nil {
		return result, err
	}

	for !sess.Done() {
		select {
		case <-ctx.Done():
			s.finish(sess, result)
			return result, ctx.Err()
		default:
		}

		f, err := sess.Step()
		if err != nil {
			s.finish(sess, result)
			return result, err
		}

		result.MinDt = math.Min(result.MinDt, f.Dt)
		result.MaxDt = math.Max(result.MaxDt, f.Dt)

		if f.Step%cfg.WriteStep == 0 {
			if err := emit(); err != nil {
				s.finish(sess, result)
				return result, err
			}
		}
	}

	s.finish(sess, result)
	return result, nil
}

func (s *Simulator) finish(sess *Session, result *Result) {
	result.Bodies = append([]nbody.Body(nil), sess.prev...)
	result.Time = sess.t
	result.StepsTaken = sess.step
	if result.StepsTaken == 0 {
		result.MinDt = 0
	}

	result.FinalEnergy = nbody.TotalEnergy(sess.prev, sess.cfg.G)
	if result.InitialEnergy != 0 {
		result.EnergyDrift = math.Abs(result.FinalEnergy-result.InitialEnergy) / math.Abs(result.InitialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) notify(f Frame) {
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, obs := range s.observers {
		obs.OnStep(f)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.MaxTimeStep > 0) || math.IsInf(cfg.MaxTimeStep, 0) {
		return fmt.Errorf("%w: max time step must be positive, got %v", ErrInvalidConfig, cfg.MaxTimeStep)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: number of steps must be positive, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if cfg.WriteStep <= 0 {
		return fmt.Errorf("%w: write step must be positive, got %d", ErrInvalidConfig, cfg.WriteStep)
	}
	if !(cfg.DistThreshold >= 0) {
		return fmt.Errorf("%w: distance threshold must not be negative, got %v", ErrInvalidConfig, cfg.DistThreshold)
	}
	if math.IsNaN(cfg.G) || math.IsInf(cfg.G, 0) {
		return fmt.Errorf("%w: gravitational constant must be finite, got %v", ErrInvalidConfig, cfg.G)
	}
	return nil
}

// Session is a run in progress. It owns two generations of bodies: the
// current one, read by every per-body update, and the next one, written by
// them. They swap once all bodies are advanced.
type Session struct {
	sim  *Simulator
	cfg  Config
	prev []nbody.Body
	next []nbody.Body
	t    float64
	dt   float64
	step int
}

// Start validates cfg, copies bodies and moves the copy into the
// center-of-mass frame. The returned session is at iteration 0.
func (s *Simulator) Start(bodies []nbody.Body, cfg Config) (*Session, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	prev := append([]nbody.Body(nil), bodies...)
	for i, b := range prev {
		if !(b.Mass > 0) || !b.IsFinite() {
			return nil, fmt.Errorf("%w: body %d must have positive mass and finite state", ErrInvalidConfig, i)
		}
	}
	if err := nbody.Normalize(prev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &Session{
		sim:  s,
		cfg:  cfg,
		prev: prev,
		next: make([]nbody.Body, len(prev)),
	}, nil
}

// Done reports whether the last iteration has run.
func (ss *Session) Done() bool { return ss.step >= ss.cfg.Steps-1 }

func (ss *Session) Frame() Frame {
	return Frame{Step: ss.step, Time: ss.t, Dt: ss.dt, Bodies: ss.prev}
}

func (ss *Session) Snapshot() Snapshot {
	return Snapshot{Step: ss.step, Time: ss.t, Positions: nbody.Positions(ss.prev)}
}

// Bodies returns a copy of the current generation.
func (ss *Session) Bodies() []nbody.Body {
	return append([]nbody.Body(nil), ss.prev...)
}

// Step runs one iteration: pick dt from the current generation, advance every
// body into the next generation, swap.
func (ss *Session) Step() (Frame, error) {
	if ss.Done() {
		return ss.Frame(), ErrFinished
	}

	cfg := ss.cfg
	dt := nbody.GlobalTimestep(ss.prev, cfg.MaxTimeStep, cfg.DistThreshold, ss.sim.estimator)

	prev, next, st := ss.prev, ss.next, ss.sim.stepper
	ParallelFor(len(prev), minParallelChunk, cfg.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			next[i] = st.Step(prev, i, dt, cfg.G)
		}
	})

	ss.prev, ss.next = next, prev
	ss.t += dt
	ss.dt = dt
	ss.step++

	if cfg.ValidateState {
		for i := range ss.prev {
			if !ss.prev[i].IsFinite() {
				return ss.Frame(), &SimulationError{Step: ss.step, Time: ss.t, Wrapped: ErrInvalidState}
			}
		}
	}

	f := ss.Frame()
	ss.sim.notify(f)
	return f, nil
}
