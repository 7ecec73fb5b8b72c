package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/archex/config"
	"github.com/teranos/archex/display"
	"gopkg.in/yaml.v3"
)

// ConfigCmd groups the configuration commands
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and manage configuration",
	Long: `Display and manage archex configuration.

Configuration sources (later overrides earlier):
1. Built-in defaults
2. System config (/etc/archex/archex.toml)
3. User config (~/.archex/archex.toml)
4. Project config (nearest archex.toml, searching up from the working directory)
5. Environment variables (ARCHEX_* prefix)

--config <file> replaces the cascade with that single file over the defaults.

Examples:
  archex config show --format yaml   # Show the effective configuration
  archex config validate             # Check it before exporting
  archex config where                # Show where each setting comes from
  archex config init                 # Write ./archex.toml with the defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	RunE:  runConfigValidate,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration files that were found and, for every setting, the
source that last set it.`,
	RunE: runConfigWhere,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the defaults",
	Long: `Write the default configuration as TOML to path (default ./archex.toml).
An existing file is kept as path.back1, rotating older backups up to .back3.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configWhereCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch configFormat {
	case "json":
		return display.OutputJSON(out, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		fmt.Fprintf(out, "# archex configuration\n%s", string(data))

	case "toml":
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# archex configuration\n%s", string(data))

	default:
		return fmt.Errorf("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	pterm.Success.Println("Configuration is valid")
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	intro, err := config.GetIntrospection()
	if err != nil {
		return err
	}

	fmt.Println("Configuration cascade (later overrides earlier):")
	fmt.Println("  1. [DEFAULT]  Built-in defaults")
	fmt.Printf("  2. [SYSTEM]   %s\n", config.SystemConfigPath)
	fmt.Printf("  3. [USER]     ~/.archex/%s\n", config.FileName)
	fmt.Printf("  4. [PROJECT]  ./%s (searches up directories)\n", config.FileName)
	fmt.Println("  5. [ENV]      ARCHEX_* environment variables")
	fmt.Println()

	if len(intro.Files) == 0 {
		fmt.Println("No configuration files found, using defaults and environment only")
	} else {
		fmt.Println("Files loaded:")
		for _, f := range intro.Files {
			fmt.Printf("  %s\n", f)
		}
	}
	fmt.Println()

	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range intro.Settings {
		from := s.SourcePath
		if s.Source == config.SourceEnvironment && from == "" {
			from = config.EnvName(s.Key)
		}
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), from})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.FileName
	if len(args) == 1 {
		path = args[0]
	}
	_, existed := os.Stat(path)
	if err := config.WriteFile(path, config.Default()); err != nil {
		return err
	}
	if existed == nil {
		pterm.Info.Printf("Previous %s kept as %s.back1\n", path, path)
	}
	pterm.Success.Printf("Wrote default configuration to %s\n", path)
	pterm.Info.Println("Set provenance.lead_author.name before exporting")
	return nil
}
