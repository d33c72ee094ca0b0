package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/busline-sim/busline-sim/sim"
)

// withGlobals sets the package-level CLI flags for one test and restores them afterwards.
func withGlobals(t *testing.T, config, trace string) {
	t.Helper()
	oldConfig, oldTrace := configPath, traceOut
	configPath, traceOut = config, trace
	t.Cleanup(func() { configPath, traceOut = oldConfig, oldTrace })
}

func parsedFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	bind := sim.DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	sim.RegisterFlags(fs, &bind)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestResolveConfig_Precedence_FlagOverEnvOverFile(t *testing.T) {
	// GIVEN a config file setting seed and max_iterations
	path := filepath.Join(t.TempDir(), "busline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 5\nmax_iterations: 20\ninitial_crowd_size: 8\n"), 0o644))
	withGlobals(t, path, "")

	// AND an environment variable overriding max_iterations and crowd size
	t.Setenv("BUSLINE_MAX_ITERATIONS", "30")
	t.Setenv("BUSLINE_INITIAL_CROWD_SIZE", "9")

	// AND a flag overriding max_iterations again
	fs := parsedFlags(t, "--max-iterations=40")

	// WHEN resolving
	cfg, err := resolveConfig(fs)

	// THEN each layer wins over the ones below it
	require.NoError(t, err)
	assert.Equal(t, int64(5), cfg.Seed, "file")
	assert.Equal(t, 9, cfg.InitialCrowdSize, "env over file")
	assert.Equal(t, 40, cfg.MaxIterations, "flag over env")
	assert.Equal(t, 15, cfg.BoardingLineCapacity, "default")
}

func TestResolveConfig_TraceOut_EnablesTicks(t *testing.T) {
	withGlobals(t, "", filepath.Join(t.TempDir(), "trace.yaml"))

	cfg, err := resolveConfig(parsedFlags(t))

	require.NoError(t, err)
	assert.Equal(t, "ticks", cfg.TraceLevel)
}

func TestResolveConfig_InvalidValue_Error(t *testing.T) {
	withGlobals(t, "", "")

	_, err := resolveConfig(parsedFlags(t, "--ticket-prob=2"))

	assert.Error(t, err)
}

func TestWriteConfig_RoundTripsThroughLoadConfig(t *testing.T) {
	// GIVEN the default configuration written as YAML
	var buf bytes.Buffer
	require.NoError(t, writeConfig(&buf, sim.DefaultConfig()))
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	// WHEN loading it back
	cfg, err := sim.LoadConfig(path)

	// THEN nothing is lost
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultConfig(), cfg)
	assert.Contains(t, buf.String(), "boarding_line_capacity: 15")
}
