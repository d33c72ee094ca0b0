// sim/simulator.go
package sim

import (
	"container/heap"
	"context"
	"fmt"
	"time"

	"github.com/busline-sim/busline-sim/sim/trace"
	"github.com/sirupsen/logrus"
)

// queuedEvent pairs an event with its scheduling sequence number so that
// events sharing a timestamp run in the order they were scheduled.
type queuedEvent struct {
	Event
	seq uint64
}

// EventQueue implements heap.Interface and orders events by timestamp,
// then by scheduling order.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []queuedEvent

func (eq EventQueue) Len() int { return len(eq) }
func (eq EventQueue) Less(i, j int) bool {
	if eq[i].Timestamp() != eq[j].Timestamp() {
		return eq[i].Timestamp() < eq[j].Timestamp()
	}
	return eq[i].seq < eq[j].seq
}
func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(queuedEvent))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	old[n-1] = queuedEvent{}
	*eq = old[0 : n-1]
	return item
}

// Simulator is the core object that holds simulation time, the pipeline
// containers and the event loop. It exclusively owns the crowd, ticket shop,
// boarding line and vehicle; all of them are mutated on the goroutine that
// calls Run or Step.
type Simulator struct {
	Clock int64
	// EventQueue has all pending events: ticks, purchase completions and vehicle timers
	EventQueue EventQueue
	seq        uint64

	Config       Config
	Crowd        *Crowd
	TicketShop   *TicketShop
	BoardingLine *BoardingLine
	Vehicle      *Vehicle
	Metrics      *Metrics
	Trace        *trace.SimulationTrace // nil unless tracing is enabled

	// Iterations counts ticks that ran a body; it is compared against Config.MaxIterations.
	Iterations    int
	frameDuration int64
	lastFrame     int64
	loopDone      bool
}

// NewSimulator validates cfg, seeds the crowd and schedules the first tick.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.OverflowPolicy == "" {
		cfg.OverflowPolicy = OverflowDrop
	}

	streams := NewSeedStreams(cfg.Seed)
	boardingLine := NewBoardingLine(cfg.BoardingLineCapacity)
	s := &Simulator{
		Clock:         0,
		EventQueue:    make(EventQueue, 0),
		Config:        cfg,
		Crowd:         SeedCrowd(cfg.InitialCrowdSize, cfg.InitialTicketProbability, streams.Stream(StreamCrowd)),
		TicketShop:    NewTicketShop(cfg.TicketShopLineCount, cfg.TicketShopLineCapacity, msToTicks(float64(cfg.PurchaseDurationMs))),
		BoardingLine:  boardingLine,
		Vehicle:       NewVehicle(msToTicks(float64(cfg.VehicleLoadDurationMs)), msToTicks(float64(cfg.VehicleAwayDurationMs))),
		Metrics:       NewMetrics(),
		frameDuration: max(msToTicks(cfg.TargetFrameDurationMs), 1),
		lastFrame:     0,
	}
	if trace.TraceLevel(cfg.TraceLevel) == trace.TraceLevelTicks {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelTicks})
	}

	s.Schedule(&TickEvent{time: 0})
	return s, nil
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	sim.seq++
	heap.Push(&sim.EventQueue, queuedEvent{Event: ev, seq: sim.seq})
}

// Step executes the next pending event and reports whether one was run.
func (sim *Simulator) Step() bool {
	if len(sim.EventQueue) == 0 {
		return false
	}
	ev := heap.Pop(&sim.EventQueue).(queuedEvent).Event
	sim.Clock = ev.Timestamp()
	logrus.Tracef("[tick %07d] Executing %T", sim.Clock, ev)
	ev.Execute(sim)
	return true
}

// Run executes events until none remain. Events scheduled before the
// scheduler loop terminated still run afterwards. In real-time mode each
// event waits for its wall-clock instant, and cancelling ctx stops the run.
func (sim *Simulator) Run(ctx context.Context) Status {
	start := time.Now()
	for len(sim.EventQueue) > 0 {
		if err := sim.wait(ctx, start); err != nil {
			logrus.Warnf("[tick %07d] Simulation interrupted: %v", sim.Clock, err)
			if !sim.loopDone {
				sim.endLoop(StatusInterrupted)
			}
			break
		}
		sim.Step()
	}
	sim.Metrics.SimEndedTime = sim.Clock
	sim.Metrics.RemainingCrowd = sim.Crowd.Len()
	sim.Metrics.RemainingTicketShop = sim.TicketShop.TotalSize()
	sim.Metrics.RemainingBoardingLine = sim.BoardingLine.Len()
	logrus.Infof("[tick %07d] Simulation ended: %s", sim.Clock, sim.Metrics.Status)
	return sim.Metrics.Status
}

// wait blocks until the next event is due on the wall clock (real-time mode
// only) or ctx is done.
func (sim *Simulator) wait(ctx context.Context, start time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !sim.Config.Realtime {
		return nil
	}
	due := start.Add(time.Duration(sim.EventQueue[0].Timestamp()) * time.Microsecond)
	d := time.Until(due)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Status returns the scheduler loop state.
func (sim *Simulator) Status() Status {
	return sim.Metrics.Status
}

// Population returns the number of persons held by the pipeline plus those
// who boarded or were dropped. It equals Config.InitialCrowdSize at all times.
func (sim *Simulator) Population() int {
	return sim.Crowd.Len() + sim.TicketShop.TotalSize() + sim.BoardingLine.Len() +
		sim.Metrics.Boarded + sim.Metrics.Dropped
}

// processTick runs one scheduler tick at time now.
func (sim *Simulator) processTick(now int64) {
	// Throttle to the frame cadence.
	if now-sim.lastFrame < sim.frameDuration {
		sim.Schedule(&TickEvent{time: sim.lastFrame + sim.frameDuration})
		return
	}
	sim.lastFrame = now

	pending := !sim.BoardingLine.IsEmpty() || !sim.TicketShop.IsEmpty() || !sim.Crowd.IsEmpty()
	if !pending {
		sim.endLoop(StatusCompleted)
		return
	}
	if sim.Iterations >= sim.Config.MaxIterations {
		sim.endLoop(StatusCapReached)
		return
	}

	logrus.Debugf("[tick %07d] crowd=%d ticketShop=%d ticketShopFull=%t boardingLine=%d iteration=%d",
		now, sim.Crowd.Len(), sim.TicketShop.TotalSize(), sim.TicketShop.IsFull(), sim.BoardingLine.Len(), sim.Iterations)
	if sim.Trace != nil {
		sim.Trace.RecordTick(trace.TickRecord{
			Clock:            now,
			Iteration:        sim.Iterations,
			CrowdSize:        sim.Crowd.Len(),
			TicketShopSize:   sim.TicketShop.TotalSize(),
			TicketShopFull:   sim.TicketShop.IsFull(),
			BoardingLineSize: sim.BoardingLine.Len(),
		})
	}

	sim.routeCrowdTop()

	for i := range sim.TicketShop.Lines() {
		if ev := sim.TicketShop.StartPurchase(i, now, sim.Crowd); ev != nil {
			sim.Schedule(ev)
		}
	}

	if !sim.BoardingLine.IsEmpty() && sim.Vehicle.IsIdle() {
		ev := sim.Vehicle.StartLoading(now, sim.BoardingLine)
		logrus.Debugf("[tick %07d] Vehicle %d loading, %d waiting", now, sim.Vehicle.Number(), sim.BoardingLine.Len())
		sim.Schedule(ev)
	}

	sim.Iterations++
	sim.Metrics.Iterations = sim.Iterations
	sim.Schedule(&TickEvent{time: now})
}

// routeCrowdTop moves the top of the crowd to the boarding line (ticketed)
// or the ticket shop (unticketed). The person stays on the crowd when the
// destination is full and is re-evaluated next tick.
func (sim *Simulator) routeCrowdTop() {
	p := sim.Crowd.Peek()
	if p == nil {
		return
	}
	switch {
	case p.Ticketed && !sim.BoardingLine.IsFull():
		sim.admit(sim.Crowd.Pop(), sim.BoardingLine.Push, "boarding line")
	case !p.Ticketed && !sim.TicketShop.IsFull():
		sim.admit(sim.Crowd.Pop(), sim.TicketShop.Push, "ticket shop")
	}
}

// admit hands p to push and applies the overflow policy if it is refused.
func (sim *Simulator) admit(p *Person, push func(*Person) bool, dest string) {
	if push(p) {
		return
	}
	switch sim.Config.OverflowPolicy {
	case OverflowRequeue:
		logrus.Debugf("[tick %07d] %s full, requeueing %s", sim.Clock, dest, p)
		sim.Crowd.Push(p)
		sim.Metrics.Requeued++
	default:
		logrus.Warnf("[tick %07d] %s full, dropping %s", sim.Clock, dest, p)
		sim.Metrics.Dropped++
	}
}

func (sim *Simulator) endLoop(status Status) {
	sim.loopDone = true
	sim.Metrics.Status = status
	sim.Metrics.LoopEndedTime = sim.Clock
	if status == StatusCapReached {
		logrus.Warnf("[tick %07d] Iteration cap %d reached with %d persons unprocessed",
			sim.Clock, sim.Config.MaxIterations, sim.Crowd.Len()+sim.TicketShop.TotalSize()+sim.BoardingLine.Len())
		return
	}
	logrus.Infof("[tick %07d] Scheduler loop ended: %s", sim.Clock, status)
}
