package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teranos/archex/config"
	"github.com/teranos/archex/model"
)

// loadConfig reads --config when given, else the full cascade
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadInputs loads and validates the configuration, then the model
func loadInputs(cmd *cobra.Command, modelPath string) (*model.Specifications, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	specs, err := model.Load(modelPath)
	if err != nil {
		return nil, nil, err
	}
	return specs, cfg, nil
}

// outputDir returns --out, else output.dir
func outputDir(cmd *cobra.Command, cfg *config.Config) string {
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		return out
	}
	return cfg.Output.Dir
}
