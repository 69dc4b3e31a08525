package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
)

type Registry struct {
	steppers   map[string]func() nbody.Stepper
	estimators map[string]func() nbody.Estimator
}

func NewRegistry() *Registry {
	r := &Registry{
		steppers:   make(map[string]func() nbody.Stepper),
		estimators: make(map[string]func() nbody.Estimator),
	}

	r.steppers["leapfrog"] = func() nbody.Stepper { return nbody.NewLeapfrog() }
	r.steppers["euler"] = func() nbody.Stepper { return nbody.NewEuler() }

	r.estimators["separation"] = func() nbody.Estimator { return nbody.Separation{} }
	r.estimators["closest-approach"] = func() nbody.Estimator { return nbody.ClosestApproach{} }

	return r
}

func (r *Registry) GetStepper(name string) (nbody.Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown stepper: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetEstimator(name string) (nbody.Estimator, error) {
	fn, ok := r.estimators[name]
	if !ok {
		return nil, fmt.Errorf("unknown estimator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListSteppers() []string   { return sortedKeys(r.steppers) }
func (r *Registry) ListEstimators() []string { return sortedKeys(r.estimators) }

// DefaultMetrics flags a run as unbounded once any body leaves a circle of
// escape times the initial extent.
func (r *Registry) DefaultMetrics(g, extent float64) []sim.Metric {
	const escape = 50.0
	radius := escape * extent
	if radius <= 0 {
		radius = escape
	}
	return metrics.Defaults(g, radius)
}

func sortedKeys[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
