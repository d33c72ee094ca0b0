package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/busline-sim/busline-sim/sim/trace"
	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable read by ApplyEnv.
const EnvPrefix = "BUSLINE_"

// OverflowPolicy decides what happens to a person refused by a full
// boarding line or ticket shop.
type OverflowPolicy string

const (
	// OverflowDrop discards the refused person. It is counted in Metrics.Dropped
	// and never reappears in any container.
	OverflowDrop OverflowPolicy = "drop"
	// OverflowRequeue puts the refused person back on top of the crowd.
	OverflowRequeue OverflowPolicy = "requeue"
)

// maxDurationMs bounds every duration so that its tick count, and the clock
// plus one such duration, stay within int64.
const maxDurationMs = math.MaxInt64 / 1000 / 2

// ValidOverflowPolicies is the set of recognized overflow policy names.
var ValidOverflowPolicies = map[OverflowPolicy]bool{"": true, OverflowDrop: true, OverflowRequeue: true}

// Config holds every tunable of a simulation run. Durations are in
// milliseconds here and converted to ticks (microseconds) by the simulator.
type Config struct {
	BoardingLineCapacity     int            `yaml:"boarding_line_capacity" env:"BOARDING_LINE_CAPACITY"`
	TicketShopLineCount      int            `yaml:"ticket_shop_line_count" env:"TICKET_SHOP_LINE_COUNT"`
	TicketShopLineCapacity   int            `yaml:"ticket_shop_line_capacity" env:"TICKET_SHOP_LINE_CAPACITY"`
	PurchaseDurationMs       int64          `yaml:"purchase_duration_ms" env:"PURCHASE_DURATION_MS"`
	VehicleLoadDurationMs    int64          `yaml:"vehicle_load_duration_ms" env:"VEHICLE_LOAD_DURATION_MS"`
	VehicleAwayDurationMs    int64          `yaml:"vehicle_away_duration_ms" env:"VEHICLE_AWAY_DURATION_MS"`
	InitialCrowdSize         int            `yaml:"initial_crowd_size" env:"INITIAL_CROWD_SIZE"`
	InitialTicketProbability float64        `yaml:"initial_ticket_probability" env:"INITIAL_TICKET_PROBABILITY"`
	TargetFrameDurationMs    float64        `yaml:"target_frame_duration_ms" env:"TARGET_FRAME_DURATION_MS"`
	MaxIterations            int            `yaml:"max_iterations" env:"MAX_ITERATIONS"`
	OverflowPolicy           OverflowPolicy `yaml:"overflow_policy" env:"OVERFLOW_POLICY"`
	Seed                     int64          `yaml:"seed" env:"SEED"`
	Realtime                 bool           `yaml:"realtime" env:"REALTIME"` // pace events against the wall clock
	TraceLevel               string         `yaml:"trace_level" env:"TRACE_LEVEL"`
}

// DefaultConfig returns the configuration observed in the reference setup:
// 50 persons, 20% pre-ticketed, two counters of five, a 15-person line.
func DefaultConfig() Config {
	return Config{
		BoardingLineCapacity:     15,
		TicketShopLineCount:      2,
		TicketShopLineCapacity:   5,
		PurchaseDurationMs:       200,
		VehicleLoadDurationMs:    2000,
		VehicleAwayDurationMs:    3000,
		InitialCrowdSize:         50,
		InitialTicketProbability: 0.2,
		TargetFrameDurationMs:    1000.0 / 60,
		MaxIterations:            1000,
		OverflowPolicy:           OverflowDrop,
		Seed:                     42,
		TraceLevel:               "none",
	}
}

// Validate checks that all capacities, durations and probabilities are usable.
func (c *Config) Validate() error {
	if c.BoardingLineCapacity <= 0 {
		return fmt.Errorf("boarding_line_capacity must be > 0, got %d", c.BoardingLineCapacity)
	}
	if c.TicketShopLineCount <= 0 {
		return fmt.Errorf("ticket_shop_line_count must be > 0, got %d", c.TicketShopLineCount)
	}
	if c.TicketShopLineCapacity <= 0 {
		return fmt.Errorf("ticket_shop_line_capacity must be > 0, got %d", c.TicketShopLineCapacity)
	}
	if c.PurchaseDurationMs < 0 || c.VehicleLoadDurationMs < 0 || c.VehicleAwayDurationMs < 0 {
		return fmt.Errorf("durations must be >= 0, got purchase=%d load=%d away=%d",
			c.PurchaseDurationMs, c.VehicleLoadDurationMs, c.VehicleAwayDurationMs)
	}
	if c.PurchaseDurationMs > maxDurationMs || c.VehicleLoadDurationMs > maxDurationMs || c.VehicleAwayDurationMs > maxDurationMs {
		return fmt.Errorf("durations must be <= %d ms, got purchase=%d load=%d away=%d",
			int64(maxDurationMs), c.PurchaseDurationMs, c.VehicleLoadDurationMs, c.VehicleAwayDurationMs)
	}
	if c.InitialCrowdSize < 0 {
		return fmt.Errorf("initial_crowd_size must be >= 0, got %d", c.InitialCrowdSize)
	}
	if math.IsNaN(c.InitialTicketProbability) || c.InitialTicketProbability < 0 || c.InitialTicketProbability > 1 {
		return fmt.Errorf("initial_ticket_probability must be in [0, 1], got %v", c.InitialTicketProbability)
	}
	if math.IsNaN(c.TargetFrameDurationMs) || math.IsInf(c.TargetFrameDurationMs, 0) || c.TargetFrameDurationMs <= 0 {
		return fmt.Errorf("target_frame_duration_ms must be a positive number, got %v", c.TargetFrameDurationMs)
	}
	if c.TargetFrameDurationMs > maxDurationMs {
		return fmt.Errorf("target_frame_duration_ms must be <= %d, got %v", int64(maxDurationMs), c.TargetFrameDurationMs)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be > 0, got %d", c.MaxIterations)
	}
	if !ValidOverflowPolicies[c.OverflowPolicy] {
		return fmt.Errorf("unknown overflow policy %q", c.OverflowPolicy)
	}
	if !trace.IsValidTraceLevel(c.TraceLevel) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	return nil
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
// Unknown keys are rejected so that typos surface as errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any BUSLINE_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

// RegisterFlags binds one flag per Config field to fs, using the current
// values in cfg as defaults.
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.BoardingLineCapacity, "boarding-line-capacity", cfg.BoardingLineCapacity, "Maximum persons waiting in the boarding line")
	fs.IntVar(&cfg.TicketShopLineCount, "ticket-lines", cfg.TicketShopLineCount, "Number of parallel ticket counters")
	fs.IntVar(&cfg.TicketShopLineCapacity, "ticket-line-capacity", cfg.TicketShopLineCapacity, "Maximum persons queued per ticket counter")
	fs.Int64Var(&cfg.PurchaseDurationMs, "purchase-ms", cfg.PurchaseDurationMs, "Time to complete one ticket purchase (ms)")
	fs.Int64Var(&cfg.VehicleLoadDurationMs, "load-ms", cfg.VehicleLoadDurationMs, "Time the vehicle spends loading before departing (ms)")
	fs.Int64Var(&cfg.VehicleAwayDurationMs, "away-ms", cfg.VehicleAwayDurationMs, "Time the vehicle is away after departing (ms)")
	fs.IntVar(&cfg.InitialCrowdSize, "crowd", cfg.InitialCrowdSize, "Initial crowd population")
	fs.Float64Var(&cfg.InitialTicketProbability, "ticket-prob", cfg.InitialTicketProbability, "Probability that a seeded person already holds a ticket")
	fs.Float64Var(&cfg.TargetFrameDurationMs, "frame-ms", cfg.TargetFrameDurationMs, "Target duration of one scheduler tick (ms)")
	fs.IntVar(&cfg.MaxIterations, "max-iterations", cfg.MaxIterations, "Safety cap on scheduler ticks")
	fs.StringVar((*string)(&cfg.OverflowPolicy), "overflow", string(cfg.OverflowPolicy), "What to do with a person refused by a full container (drop, requeue)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for crowd ticket assignment")
	fs.BoolVar(&cfg.Realtime, "realtime", cfg.Realtime, "Pace the simulation against the wall clock")
	fs.StringVar(&cfg.TraceLevel, "trace-level", cfg.TraceLevel, "Trace verbosity (none, ticks)")
}

// ApplyFlags copies into cfg the value of every flag that was explicitly set
// on changed. Flags not registered by RegisterFlags are ignored.
func ApplyFlags(changed *pflag.FlagSet, cfg *Config) error {
	bound := pflag.NewFlagSet("config", pflag.ContinueOnError)
	RegisterFlags(bound, cfg)
	var err error
	changed.Visit(func(f *pflag.Flag) {
		if err != nil || bound.Lookup(f.Name) == nil {
			return
		}
		if setErr := bound.Set(f.Name, f.Value.String()); setErr != nil {
			err = fmt.Errorf("flag --%s: %w", f.Name, setErr)
		}
	})
	return err
}

// msToTicks converts milliseconds to simulation ticks (microseconds).
func msToTicks(ms float64) int64 {
	return int64(math.Round(ms * 1000))
}
