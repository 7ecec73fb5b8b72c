package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/archex/config"
	"github.com/teranos/archex/export"
)

// WatchCmd re-exports whenever the model or configuration changes
var WatchCmd = &cobra.Command{
	Use:   "watch <model>",
	Short: "Re-export whenever the model or configuration changes",
	Long: `Export once, then watch the model and every configuration file in the
cascade and export again after each change. A failed export is logged and the
previous tree is left in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	WatchCmd.Flags().StringP("out", "o", "", "Output directory (default: output.dir)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	modelPath := args[0]
	configPath, _ := cmd.Flags().GetString("config")

	run := func() error {
		// pick up configuration edits
		if configPath == "" {
			config.Reset()
		}
		specs, cfg, err := loadInputs(cmd, modelPath)
		if err != nil {
			return err
		}
		res, err := export.Run(specs, cfg)
		if err != nil {
			return err
		}
		return export.WriteTree(outputDir(cmd, cfg), res)
	}

	if err := run(); err != nil {
		pterm.Error.Printf("Initial export failed: %v\n", err)
	}

	paths := []string{modelPath}
	if configPath != "" {
		paths = append(paths, configPath)
	} else {
		paths = append(paths, config.ConfigPaths()...)
	}
	paths = watchable(paths)

	w, err := export.NewWatcher(run, paths)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w.Start(ctx)
	pterm.Info.Printf("Watching %d files, press Ctrl+C to stop\n", len(paths))
	<-w.Done()
	pterm.Info.Println("Stopped watching")
	return nil
}

// watchable drops paths whose directory does not exist
func watchable(paths []string) []string {
	var out []string
	for _, p := range paths {
		if info, err := os.Stat(filepath.Dir(p)); err == nil && info.IsDir() {
			out = append(out, p)
		}
	}
	return out
}
