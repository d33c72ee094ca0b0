// Package sim provides the discrete-event engine that moves people from a
// waiting crowd, through ticket counters and a boarding line, onto a vehicle.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - queue.go, ticket_shop.go: the bounded containers and their disciplines
//     (Crowd and BoardingLine are stacks, ticket lines are FIFO queues)
//   - vehicle.go: the idle → loading → away state machine
//   - event.go: Event types that drive the simulation (Tick, PurchaseComplete,
//     VehicleDepart, VehicleReturn)
//   - simulator.go: the event loop and the scheduler tick
//
// # Execution Model
//
// A single goroutine pops events from one time-ordered heap. Timers are
// ordinary events scheduled at a future tick (1 tick = 1 µs of simulated
// time), so no locks are needed and runs are reproducible for a given seed.
// The scheduler tick reschedules itself with zero delay and throttles itself
// to Config.TargetFrameDurationMs.
//
// The tick loop ends with StatusCompleted once every container is empty, or
// StatusCapReached when Config.MaxIterations ticks have run. Purchases and
// vehicle timers already scheduled at that point still fire.
//
// Sub-package sim/trace records per-tick diagnostics.
package sim
