// Tracks run-wide counters: purchases, departures, boarded and dropped
// persons, and how the scheduler loop ended.

package sim

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// Status is the terminal state of the scheduler loop.
type Status string

const (
	// StatusRunning means the scheduler loop has not terminated yet.
	StatusRunning Status = "running"
	// StatusCompleted means the crowd, ticket shop and boarding line were all empty.
	StatusCompleted Status = "completed"
	// StatusCapReached means the iteration cap stopped the loop with persons left unprocessed.
	StatusCapReached Status = "cap_reached"
	// StatusInterrupted means the run context was cancelled before the loop terminated.
	StatusInterrupted Status = "interrupted"
)

// Metrics aggregates statistics about the simulation for final reporting.
type Metrics struct {
	Status             Status
	Iterations         int   // scheduler ticks that ran a body
	PurchasesCompleted int   // includes purchases completing after the loop stopped
	Departures         int   // completed loads
	Boarded            int   // persons drained from the boarding line by departures
	Dropped            int   // persons discarded by OverflowDrop
	Requeued           int   // persons sent back to the crowd by OverflowRequeue
	LoopEndedTime      int64 // clock when the scheduler loop terminated (ticks)
	SimEndedTime       int64 // clock when the last event ran (ticks)

	// Persons still held by each container when the event queue ran dry.
	RemainingCrowd        int
	RemainingTicketShop   int
	RemainingBoardingLine int
}

func NewMetrics() *Metrics {
	return &Metrics{Status: StatusRunning}
}

// Remaining returns how many persons were left unprocessed.
func (m *Metrics) Remaining() int {
	return m.RemainingCrowd + m.RemainingTicketShop + m.RemainingBoardingLine
}

// Print writes a human-readable report to w.
func (m *Metrics) Print(w io.Writer, wallTime time.Duration) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Status               : %s\n", m.Status)
	fmt.Fprintf(w, "Iterations           : %s\n", humanize.Comma(int64(m.Iterations)))
	fmt.Fprintf(w, "Loop Ended At        : %s\n", formatTicks(m.LoopEndedTime))
	fmt.Fprintf(w, "Simulation Ended At  : %s\n", formatTicks(m.SimEndedTime))
	fmt.Fprintf(w, "Purchases Completed  : %s\n", humanize.Comma(int64(m.PurchasesCompleted)))
	fmt.Fprintf(w, "Departures           : %s\n", humanize.Comma(int64(m.Departures)))
	fmt.Fprintf(w, "Boarded              : %s\n", humanize.Comma(int64(m.Boarded)))
	if m.Departures > 0 {
		fmt.Fprintf(w, "Average Load         : %.2f persons\n", float64(m.Boarded)/float64(m.Departures))
	}
	fmt.Fprintf(w, "Dropped              : %s\n", humanize.Comma(int64(m.Dropped)))
	if m.Requeued > 0 {
		fmt.Fprintf(w, "Requeued             : %s\n", humanize.Comma(int64(m.Requeued)))
	}
	fmt.Fprintf(w, "Remaining            : %d (crowd=%d, ticket shop=%d, boarding line=%d)\n",
		m.Remaining(), m.RemainingCrowd, m.RemainingTicketShop, m.RemainingBoardingLine)
	fmt.Fprintf(w, "Wall Time            : %s\n", wallTime.Round(time.Microsecond))
}

// formatTicks renders a tick count (microseconds) as simulated seconds.
func formatTicks(ticks int64) string {
	return humanize.FtoaWithDigits(float64(ticks)/1e6, 3) + "s"
}
