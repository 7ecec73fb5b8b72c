package commands

import (
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/archex/display"
	"github.com/teranos/archex/export"
)

// ExportCmd writes the archetype and schema tree
var ExportCmd = &cobra.Command{
	Use:   "export <model>",
	Short: "Write the archetype and schema tree",
	Long: `Export every entry element of the model, and every ancestor of one, as an
ADL archetype, plus the BMM schema of the whole model.

The tree is written to <out>/adl-bmm:

  adl-bmm/rm_schemas/<schema>.bmm
  adl-bmm/adl-repo/<archetype>.adls

Nothing is written unless every document renders.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	ExportCmd.Flags().StringP("out", "o", "", "Output directory (default: output.dir)")
	ExportCmd.Flags().Bool("quiet", false, "Do not print the summary")
	ExportCmd.Flags().BoolP("json", "j", false, "Print the summary as JSON")
}

// exportSummary is the --json form of the export summary
type exportSummary struct {
	Tree       string   `json:"tree"`
	Schema     string   `json:"schema"`
	Archetypes []string `json:"archetypes"`
	DurationMS int64    `json:"duration_ms"`
}

func runExport(cmd *cobra.Command, args []string) error {
	specs, cfg, err := loadInputs(cmd, args[0])
	if err != nil {
		return err
	}
	dir := outputDir(cmd, cfg)

	start := time.Now()
	res, err := export.Run(specs, cfg)
	if err != nil {
		return err
	}
	if err := export.WriteTree(dir, res); err != nil {
		return err
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return nil
	}
	tree := filepath.Join(dir, export.TreeDir)
	if display.ShouldOutputJSON(cmd) {
		summary := exportSummary{
			Tree:       tree,
			Schema:     filepath.Join(export.SchemaDir, res.Schema.File),
			DurationMS: time.Since(start).Milliseconds(),
		}
		for _, d := range res.Archetypes {
			summary.Archetypes = append(summary.Archetypes, filepath.Join(export.RepoDir, d.File))
		}
		return display.OutputJSON(cmd.OutOrStdout(), summary)
	}
	pterm.Success.Printf("Exported %d archetypes and 1 schema to %s\n", len(res.Archetypes), tree)
	pterm.Printf("  %s %s\n", pterm.Gray("schema:"), pterm.LightCyan(filepath.Join(export.SchemaDir, res.Schema.File)))
	for _, d := range res.Archetypes {
		pterm.Printf("  %s %s\n", pterm.Gray("→"), pterm.LightGreen(filepath.Join(export.RepoDir, d.File)))
	}
	pterm.Printf("  %s %s\n", pterm.Gray("took:"), time.Since(start).Round(time.Millisecond))
	return nil
}
