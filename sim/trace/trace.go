package trace

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TraceLevel controls the verbosity of diagnostic tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTicks captures one record per tick plus every purchase and departure.
	TraceLevelTicks TraceLevel = "ticks"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelTicks: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel `yaml:"level"`
}

// SimulationTrace collects diagnostic records during a simulation.
type SimulationTrace struct {
	Config     TraceConfig       `yaml:"config"`
	Ticks      []TickRecord      `yaml:"ticks"`
	Purchases  []PurchaseRecord  `yaml:"purchases"`
	Departures []DepartureRecord `yaml:"departures"`
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:     config,
		Ticks:      make([]TickRecord, 0),
		Purchases:  make([]PurchaseRecord, 0),
		Departures: make([]DepartureRecord, 0),
	}
}

// RecordTick appends a tick record.
func (st *SimulationTrace) RecordTick(record TickRecord) {
	st.Ticks = append(st.Ticks, record)
}

// RecordPurchase appends a purchase record.
func (st *SimulationTrace) RecordPurchase(line, personID int, started, completed int64) {
	st.Purchases = append(st.Purchases, PurchaseRecord{
		Line:     line,
		PersonID: personID,
		Started:  started,
		Clock:    completed,
	})
}

// RecordDeparture appends a departure record.
func (st *SimulationTrace) RecordDeparture(record DepartureRecord) {
	st.Departures = append(st.Departures, record)
}

// WriteYAML writes the trace to path as YAML.
func (st *SimulationTrace) WriteYAML(path string) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}
