// Package growth simulates the tree layout as an organically growing fractal.
//
// A [Branch] grows towards its target length over discrete ticks. Once it
// gets there it finishes and spawns two or three shorter child branches from
// its end point, which grow in turn. A branch whose whole subtree is done
// becomes static and never changes again, which lets renderers cache it.
//
// # States
//
//	growing  → Length < TargetLength
//	finished → target reached, children spawned exactly once
//	static   → finished and every child static (terminal)
//
// # Driving a simulation
//
// [Simulation] owns the forest of root branches and an explicit tick
// counter. Each call to [Simulation.Tick] decides from the cadence whether
// the tick grows anything, advances every root and pauses growth once the
// number of leaf ends reaches the configured cutoff:
//
//	sim, _ := growth.New(growth.DefaultConfig(), rng.New(42))
//	sim.Plant(growth.DefaultSeed())
//	for !sim.Complete() && !sim.Paused() {
//	    sim.Tick()
//	}
//	for _, seg := range sim.Segments() {
//	    draw(seg.Start, seg.Tip, seg.Depth)
//	}
//
// Everything is single-threaded: a Simulation must not be advanced from
// more than one goroutine at a time.
package growth
