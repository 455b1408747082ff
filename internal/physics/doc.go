// Package physics implements the per-tick update of a 2D particle fluid.
//
// A [Set] of unit point masses is advanced by [Step] under constant gravity,
// short-range pairwise repulsion and damped wall collision:
//
//	ps := physics.Scatter(500, physics.Bounds{Width: 800, Height: 600}, rng)
//	for {
//	    physics.Step(ps, bounds, physics.DefaultParams())
//	}
//
// Step is single threaded and runs to completion. Callers that render while
// stepping must hand renderers a [View] of a snapshot that is not being
// stepped; see the sim package for a double buffer.
//
// # Iteration order
//
// Pairs are visited once each, i < j, in index order, and particle i moves
// before particle i+1 takes gravity. The velocity particle j starts its own
// turn with already contains the pushes of every earlier particle. Reordering
// the set, or visiting pairs through a spatial index, changes the numbers.
package physics
