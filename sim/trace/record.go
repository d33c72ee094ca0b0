// Package trace provides diagnostic recording for a simulation run.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// TickRecord captures the pipeline occupancy observed at the start of one
// scheduler tick, before the tick routes anyone.
type TickRecord struct {
	Clock            int64 `yaml:"clock"`
	Iteration        int   `yaml:"iteration"`
	CrowdSize        int   `yaml:"crowd_size"`
	TicketShopSize   int   `yaml:"ticket_shop_size"`
	TicketShopFull   bool  `yaml:"ticket_shop_full"`
	BoardingLineSize int   `yaml:"boarding_line_size"`
}

// PurchaseRecord captures one completed ticket purchase.
type PurchaseRecord struct {
	Line     int   `yaml:"line"`
	PersonID int   `yaml:"person_id"`
	Started  int64 `yaml:"started"`
	Clock    int64 `yaml:"clock"` // completion time
}

// DepartureRecord captures one vehicle departure.
type DepartureRecord struct {
	Number    int   `yaml:"number"`
	LoadStart int64 `yaml:"load_start"`
	Clock     int64 `yaml:"clock"`   // departure time
	Queued    int   `yaml:"queued"`  // boarding line length when loading started
	Boarded   int   `yaml:"boarded"` // persons drained from the line at departure
}
