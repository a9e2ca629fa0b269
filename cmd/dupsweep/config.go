package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/config"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage dupsweep configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/dupsweep/config.yaml (if set)
  2. ~/.config/dupsweep/config.yaml

Environment variables can override config file settings using the DUPSWEEP_ prefix:
  DUPSWEEP_OUTPUT=json
  DUPSWEEP_HASH_ALGORITHM=xxhash
  DUPSWEEP_CACHE_ENABLED=false`,
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current configuration",
			Long:  `Display the effective configuration merged from defaults, file and environment.`,
			Args:  cobra.NoArgs,
			RunE:  a.runConfigShow,
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create default configuration file",
			Long:  `Create a default configuration file if one doesn't exist.`,
			Args:  cobra.NoArgs,
			RunE:  a.runConfigInit,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file path",
			Args:  cobra.NoArgs,
			RunE:  a.runConfigPath,
		},
	)

	return configCmd
}

// runConfigShow displays the effective configuration as YAML.
func (a *app) runConfigShow(*cobra.Command, []string) error {
	if used := a.v.ConfigFileUsed(); used != "" {
		fmt.Fprintf(a.out, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(a.out, "# Config file: (using defaults, no file found)")
	}

	data, err := yaml.Marshal(a.v.AllSettings())
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = a.out.Write(data)
	if err != nil {
		return err
	}

	var overrides []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, config.EnvPrefix+"_") {
			overrides = append(overrides, kv)
		}
	}
	if len(overrides) > 0 {
		fmt.Fprintln(a.out, "\n# Environment overrides:")
		for _, kv := range overrides {
			fmt.Fprintf(a.out, "#   %s\n", kv)
		}
	}
	return nil
}

// runConfigInit creates a default config file.
func (a *app) runConfigInit(*cobra.Command, []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		a.printInfo("Config file already exists: %s", configPath)
		return nil
	}

	if _, err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	a.printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func (a *app) runConfigPath(*cobra.Command, []string) error {
	configPath := a.v.ConfigFileUsed()
	if configPath == "" {
		var err error
		if configPath, err = config.ConfigPath(); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.out, configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		a.printVerbose("File does not exist (will use defaults)")
	}
	return nil
}
