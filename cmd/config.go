package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bilisweep/config"
	"bilisweep/internal/credential"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Long: `Show or manage configuration.

When run without arguments, shows the current merged configuration.

Subcommands:
  init  Create a starter config file
  path  Show config and cookie file locations
  show  Show current merged config (same as bare 'bilisweep config')`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (default: user config dir)")

	cmd.AddCommand(NewCmdConfigInit())
	cmd.AddCommand(NewCmdConfigPath())
	cmd.AddCommand(NewCmdConfigShow())

	return cmd
}

// NewCmdConfigInit creates the config init subcommand.
func NewCmdConfigInit() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter config file",
		Long: `Create a starter config file with commented defaults at the
default location. Refuses to overwrite an existing file unless --force
is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

// NewCmdConfigPath creates the config path subcommand.
func NewCmdConfigPath() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config and cookie file locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			printPath("config ", config.Path())
			printPath("cookies", credential.DefaultCookiesPath())
			return nil
		},
	}
}

// NewCmdConfigShow creates the config show subcommand.
func NewCmdConfigShow() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current merged configuration",
		Long:  `Show the current configuration after merging defaults with the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (default: user config dir)")
	return cmd
}

func runConfigShow(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	out, err := cfg.ToYAML()
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runConfigInit(force bool) error {
	path := config.Path()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(config.DefaultConfigDir(), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.MinimalConfig()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}

func printPath(label, path string) {
	status := "missing"
	if _, err := os.Stat(path); err == nil {
		status = "exists"
	}
	fmt.Printf("%s  %s  (%s)\n", label, path, status)
}
