package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sim "github.com/busline-sim/busline-sim/sim"
)

var (
	sweepRuns     int        // Number of seeds to simulate
	sweepParallel int        // Maximum simulations in flight
	sweepFlags    sim.Config // Binding target for the simulation flags
)

// SweepResult is the outcome of one seeded run in a sweep.
type SweepResult struct {
	Seed    int64
	Metrics sim.Metrics
}

// runSweep simulates runs seeds drawn from the sweep stream of cfg.Seed. Each
// simulation is single-threaded and owns its state; up to parallel of them
// run concurrently. Results are returned in draw order.
func runSweep(ctx context.Context, cfg sim.Config, runs, parallel int) ([]SweepResult, error) {
	if runs <= 0 {
		return nil, fmt.Errorf("runs must be > 0, got %d", runs)
	}
	if parallel <= 0 {
		return nil, fmt.Errorf("parallel must be > 0, got %d", parallel)
	}
	results := make([]SweepResult, runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, seed := range sim.SweepSeeds(cfg.Seed, runs) {
		i := i // per-iteration copy; go directive is 1.21
		runCfg := cfg
		runCfg.Seed = seed
		// Real-time pacing makes no sense for batch runs, and per-run traces are not reported.
		runCfg.Realtime = false
		runCfg.TraceLevel = ""
		g.Go(func() error {
			s, err := sim.NewSimulator(runCfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", runCfg.Seed, err)
			}
			if status := s.Run(ctx); status == sim.StatusInterrupted {
				return fmt.Errorf("seed %d: %w", runCfg.Seed, ctx.Err())
			}
			results[i] = SweepResult{Seed: runCfg.Seed, Metrics: *s.Metrics}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// printSweep writes one row per run followed by the status distribution.
func printSweep(w io.Writer, results []SweepResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEED\tSTATUS\tITERATIONS\tDEPARTURES\tBOARDED\tDROPPED\tREMAINING")
	statuses := make(map[sim.Status]int)
	for _, r := range results {
		m := r.Metrics
		statuses[m.Status]++
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.Seed, m.Status, m.Iterations, m.Departures, m.Boarded, m.Dropped, m.Remaining())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d runs: %d completed, %d cap reached\n",
		len(results), statuses[sim.StatusCompleted], statuses[sim.StatusCapReached])
	return nil
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the same configuration across seeds derived from --seed",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd.Flags())
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		results, err := runSweep(ctx, cfg, sweepRuns, sweepParallel)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		if err := printSweep(os.Stdout, results); err != nil {
			logrus.Fatalf("Failed to write sweep results: %v", err)
		}
	},
}

func init() {
	sweepFlags = sim.DefaultConfig()
	sim.RegisterFlags(sweepCmd.Flags(), &sweepFlags)
	sweepCmd.Flags().IntVar(&sweepRuns, "runs", 20, "Number of seeds to simulate")
	sweepCmd.Flags().IntVar(&sweepParallel, "parallel", 4, "Maximum simulations running at once")

	rootCmd.AddCommand(sweepCmd)
}
