package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	sim "github.com/busline-sim/busline-sim/sim"
)

// writeConfig encodes cfg as YAML in the same layout LoadConfig accepts.
func writeConfig(w io.Writer, cfg sim.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the effective configuration as YAML",
	Long:  "Print the configuration after applying --config and BUSLINE_* environment overrides. The output can be edited and passed back with --config.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd.Flags())
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if err := writeConfig(os.Stdout, cfg); err != nil {
			logrus.Fatalf("Failed to write config: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
}
