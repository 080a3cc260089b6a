// Package sim provides the Multilevel Monte Carlo (MLMC) pricing engine for
// path-dependent options under Geometric Brownian Motion.
//
// # Reading Guide
//
// Start with these files to understand the estimator:
//   - path.go: exact lognormal single-level paths and coupled fine/coarse pairs
//   - payoff.go: Asian and up-and-out barrier payoffs, Brownian-bridge barrier test
//   - statistics.go: LevelStatistics, the combinable per-level accumulator
//   - engine.go: pilot sampling, allocation, extra sampling and the telescoping sum
//
// # Architecture
//
// Control flows downward and statistics flow back up:
//
//	ChooseMaxLevel -> Engine.Price -> Allocate -> EstimateLevel -> path simulation -> payoffs
//
// Only aggregated sums, sums of squares and costs leave a level's evaluation;
// raw paths live in per-chunk scratch buffers.
//
// # Randomness
//
// Every draw comes from an explicitly injected Source. The engine derives one
// independent stream per (subsystem, level, chunk) from a SimulationKey, so a
// fixed key reproduces estimates bit-for-bit independently of the worker count.
//
// # Sub-packages
//   - sim/trace/: per-level run records and convergence rate summaries
package sim
