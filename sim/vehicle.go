// Implements the Vehicle state machine: idle -> loading -> away -> idle.
// Only the idle -> loading transition is requested from outside; the other
// two are driven by the vehicle's own timer events.

package sim

import "github.com/busline-sim/busline-sim/sim/trace"

// VehicleState represents the lifecycle state of the vehicle.
type VehicleState string

const (
	VehicleIdle    VehicleState = "idle"
	VehicleLoading VehicleState = "loading"
	VehicleAway    VehicleState = "away"
)

type Vehicle struct {
	LoadDuration int64 // ticks between starting to load and departing
	AwayDuration int64 // ticks between departing and being available again

	state  VehicleState
	number int // number of the next departure, starts at 1

	// At most one of these is non-nil, matching state.
	loading *VehicleDepartEvent
	away    *VehicleReturnEvent
}

// NewVehicle returns an idle vehicle whose first departure is number 1.
func NewVehicle(loadDuration, awayDuration int64) *Vehicle {
	return &Vehicle{
		LoadDuration: loadDuration,
		AwayDuration: awayDuration,
		state:        VehicleIdle,
		number:       1,
	}
}

func (v *Vehicle) State() VehicleState { return v.state }
func (v *Vehicle) IsIdle() bool        { return v.state == VehicleIdle }

// Number returns the number the next departure will carry.
func (v *Vehicle) Number() int { return v.number }

// Departures returns how many loads have completed.
func (v *Vehicle) Departures() int { return v.number - 1 }

// StartLoading moves an idle vehicle to loading and returns the departure
// event the caller must schedule. Returns nil if the vehicle is not idle.
func (v *Vehicle) StartLoading(now int64, line *BoardingLine) *VehicleDepartEvent {
	if v.state != VehicleIdle {
		return nil
	}
	ev := &VehicleDepartEvent{
		time:      now + v.LoadDuration,
		loadStart: now,
		queued:    line.Len(),
		Line:      line,
	}
	v.loading = ev
	v.state = VehicleLoading
	return ev
}

// depart boards everyone waiting in the line and moves the vehicle away.
// The returned event brings the vehicle back to idle.
func (v *Vehicle) depart(ev *VehicleDepartEvent) (trace.DepartureRecord, *VehicleReturnEvent) {
	if v.loading != ev {
		panic("depart: event is not the vehicle's pending departure")
	}
	record := trace.DepartureRecord{
		Number:    v.number,
		LoadStart: ev.loadStart,
		Clock:     ev.time,
		Queued:    ev.queued,
		Boarded:   ev.Line.Drain(),
	}
	v.loading = nil
	v.number++

	ret := &VehicleReturnEvent{time: ev.time + v.AwayDuration}
	v.away = ret
	v.state = VehicleAway
	return record, ret
}

func (v *Vehicle) returnToService(ev *VehicleReturnEvent) {
	if v.away != ev {
		panic("returnToService: event is not the vehicle's pending return")
	}
	v.away = nil
	v.state = VehicleIdle
}
