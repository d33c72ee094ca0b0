package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	sim "github.com/busline-sim/busline-sim/sim"
	"github.com/busline-sim/busline-sim/sim/trace"
)

var (
	logLevel   string     // Log verbosity level
	configPath string     // Optional YAML config file
	traceOut   string     // Optional path for the YAML trace export
	runFlags   sim.Config // Binding target for the simulation flags; see resolveConfig
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "busline-sim",
	Short: "Discrete-event simulator for a crowd boarding a shuttle through ticket counters",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)
		return nil
	},
}

// resolveConfig layers the configuration: defaults, then the --config file,
// then BUSLINE_* environment variables, then explicitly set flags.
func resolveConfig(flags *pflag.FlagSet) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		loaded, err := sim.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := sim.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := sim.ApplyFlags(flags, &cfg); err != nil {
		return cfg, err
	}
	if traceOut != "" && (cfg.TraceLevel == "" || trace.TraceLevel(cfg.TraceLevel) == trace.TraceLevelNone) {
		cfg.TraceLevel = string(trace.TraceLevelTicks)
	}
	return cfg, cfg.Validate()
}

// runCmd executes one simulation using the resolved configuration
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single simulation",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd.Flags())
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		logrus.Infof("Starting simulation: crowd=%d ticketProb=%.2f ticketLines=%dx%d boardingLine=%d maxIterations=%d seed=%d",
			cfg.InitialCrowdSize, cfg.InitialTicketProbability, cfg.TicketShopLineCount, cfg.TicketShopLineCapacity,
			cfg.BoardingLineCapacity, cfg.MaxIterations, cfg.Seed)

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Failed to create simulator: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		startTime := time.Now()
		s.Run(ctx)
		s.Metrics.Print(os.Stdout, time.Since(startTime))

		if s.Trace != nil {
			printTraceSummary(trace.Summarize(s.Trace))
			if traceOut != "" {
				if err := s.Trace.WriteYAML(traceOut); err != nil {
					logrus.Fatalf("Failed to write trace: %v", err)
				}
				logrus.Infof("Trace written to %s", traceOut)
			}
		}

		logrus.Info("Simulation complete.")
	},
}

func printTraceSummary(ts *trace.TraceSummary) {
	fmt.Println("=== Trace Summary ===")
	fmt.Printf("Ticks Recorded       : %d\n", ts.TotalTicks)
	fmt.Printf("Peak Crowd           : %d\n", ts.PeakCrowd)
	fmt.Printf("Peak Ticket Shop     : %d\n", ts.PeakTicketShop)
	fmt.Printf("Peak Boarding Line   : %d\n", ts.PeakBoardingLine)
	fmt.Printf("Ticks With Shop Full : %d\n", ts.TicksWithShopFull)
	fmt.Printf("Purchases Per Line   : %v\n", ts.PurchasesPerLine)
	if ts.Departures > 0 {
		fmt.Printf("Mean Boarded         : %.2f (max %d)\n", ts.MeanBoarded, ts.MaxBoarded)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")

	runFlags = sim.DefaultConfig()
	sim.RegisterFlags(runCmd.Flags(), &runFlags)
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the per-tick trace to this YAML file (enables tracing)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
