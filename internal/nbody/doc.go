// Package nbody implements the point-mass gravity model: bodies, their mutual
// pull, the integration steppers, the adaptive timestep estimators and the
// center-of-mass frame normalizer.
//
//   - [Body]: mass, position and velocity of one point mass
//   - [Leapfrog]: kick-drift-kick stepper used for production runs
//   - [Euler]: single-stage stepper kept for comparison only
//   - [Separation]: separation-fraction timestep bound
//   - [ClosestApproach]: geometric closest-approach timestep bound
//   - [Normalize]: shift a body set into the zero-momentum frame
//
// # Generations
//
// Every stepper reads a frozen generation of bodies and returns the new state
// of one slot. A body never sees a partially advanced neighbor, and it is
// excluded from its own neighbor set by index, never by comparing values.
//
// # Singularities
//
// Gravity is not softened. Two bodies at the same position make the pull
// divide by zero and the resulting NaN/Inf propagates into every later
// generation. Callers must keep initial positions distinct.
package nbody
