package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in ticks) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() int64
	Execute(*Simulator)
}

// TickEvent is one pass of the scheduler loop. After a tick runs, the next
// TickEvent is scheduled with zero delay; it throttles itself to the frame
// cadence when it fires.
type TickEvent struct {
	time int64 // Scheduled execution time (in ticks)
}

// Timestamp returns the scheduled time of the TickEvent.
func (e *TickEvent) Timestamp() int64 {
	return e.time
}

// Execute runs the scheduler tick.
func (e *TickEvent) Execute(sim *Simulator) {
	sim.processTick(e.time)
}

// PurchaseCompleteEvent fires when a ticket purchase finishes. It doubles as
// the in-flight handle stored on the TicketLine while the purchase is pending.
type PurchaseCompleteEvent struct {
	time    int64
	started int64
	Line    *TicketLine
	Person  *Person
	Crowd   *Crowd // where the person goes once ticketed
}

// Timestamp returns the completion time of the purchase.
func (e *PurchaseCompleteEvent) Timestamp() int64 {
	return e.time
}

// Execute grants the ticket and hands the person back to the crowd.
func (e *PurchaseCompleteEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< PurchaseComplete: %s at line %d, %d ticks", e.Person, e.Line.Index, e.time)
	sim.TicketShop.completePurchase(e)
	sim.Metrics.PurchasesCompleted++
	if sim.Trace != nil {
		sim.Trace.RecordPurchase(e.Line.Index, e.Person.ID, e.started, e.time)
	}
}

// VehicleDepartEvent fires when the vehicle has finished loading.
type VehicleDepartEvent struct {
	time      int64
	loadStart int64
	queued    int // boarding line length when loading started
	Line      *BoardingLine
}

// Timestamp returns the time loading ends.
func (e *VehicleDepartEvent) Timestamp() int64 {
	return e.time
}

// Execute boards the waiting persons and sends the vehicle away.
func (e *VehicleDepartEvent) Execute(sim *Simulator) {
	record, ret := sim.Vehicle.depart(e)
	logrus.Debugf("Vehicle %d is leaving at %d ticks, load=%d", record.Number, e.time, record.Boarded)
	sim.Metrics.Departures++
	sim.Metrics.Boarded += record.Boarded
	if sim.Trace != nil {
		sim.Trace.RecordDeparture(record)
	}
	sim.Schedule(ret)
}

// VehicleReturnEvent fires when the vehicle becomes available again.
type VehicleReturnEvent struct {
	time int64
}

// Timestamp returns the time the vehicle is back.
func (e *VehicleReturnEvent) Timestamp() int64 {
	return e.time
}

// Execute makes the vehicle idle again.
func (e *VehicleReturnEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< VehicleReturn at %d ticks", e.time)
	sim.Vehicle.returnToService(e)
}
