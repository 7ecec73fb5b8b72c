package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/teranos/archex/cmd/archex/commands"
	"github.com/teranos/archex/logger"
)

var rootCmd = &cobra.Command{
	Use:   "archex",
	Short: "archex - Export a clinical data model as ADL archetypes and a BMM schema",
	Long: `archex - Archetype exporter for clinical data models.

archex reads a clinical model (JSON, YAML or TOML) and writes one ADL 2
archetype per exported element plus one BMM schema describing the model's
classes.

Available commands:
  export  - Write the archetype and schema tree
  adl     - Print archetypes
  bmm     - Print the schema
  watch   - Re-export whenever the model or configuration changes
  config  - Show and manage configuration
  version - Show version information

Examples:
  archex export model.yaml             # Write ./out/adl-bmm
  archex adl model.yaml Observation    # Print one archetype
  archex watch model.yaml -v           # Re-export on every save
  archex config where                  # Show where settings come from`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("log-json")
		if err := logger.InitializeWithVerbosity(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Read configuration from this file only (skips the cascade)")

	rootCmd.AddCommand(commands.ExportCmd)
	rootCmd.AddCommand(commands.ADLCmd)
	rootCmd.AddCommand(commands.BMMCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
