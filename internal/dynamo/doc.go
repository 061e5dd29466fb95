// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical integrator interface
//   - [Metric]: per-step trajectory observation interface
//
// # Example
//
//	model, _ := child.New(cohort, source, dt, false)
//	integ := integrators.NewRK4()
//	traj, _ := model.Simulate(ctx, days, integ)
//
// # Thread Safety
//
// System implementations are expected to be pure with respect to Derive:
// repeated calls with identical inputs return identical output and mutate
// nothing. Population state is embarrassingly parallel across individuals;
// use [ParallelFor] to partition it.
package dynamo
