package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/teranos/archex/export"
)

// ADLCmd prints archetypes to stdout
var ADLCmd = &cobra.Command{
	Use:   "adl <model> [element...]",
	Short: "Print archetypes",
	Long: `Render the archetypes of the model and print them to stdout, separated by
blank lines. With element names, print only those archetypes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runADL,
}

// BMMCmd prints the schema to stdout
var BMMCmd = &cobra.Command{
	Use:   "bmm <model>",
	Short: "Print the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runBMM,
}

func runADL(cmd *cobra.Command, args []string) error {
	specs, cfg, err := loadInputs(cmd, args[0])
	if err != nil {
		return err
	}
	docs, err := export.ADL(specs, cfg)
	if err != nil {
		return err
	}

	names := args[1:]
	if len(names) == 0 {
		for name := range docs {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	out := cmd.OutOrStdout()
	for i, name := range names {
		text, ok := docs[name]
		if !ok {
			return fmt.Errorf("no archetype named %q (elements must be entries or ancestors of one)", name)
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, text)
	}
	return nil
}

func runBMM(cmd *cobra.Command, args []string) error {
	specs, cfg, err := loadInputs(cmd, args[0])
	if err != nil {
		return err
	}
	schema, err := export.BMM(specs, cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), schema)
	return nil
}
