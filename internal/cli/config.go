package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/sdejongh/exporter/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or create the exporter configuration file.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return errors.Errorf("failed to marshal config: %w", err)
			}

			out := cmd.OutOrStdout()
			if path := configPath(); path != "" {
				fmt.Fprintf(out, "# %s\n", path)
			}
			fmt.Fprint(out, string(data))
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()
			if path == "" {
				return errors.New("cannot determine the configuration path")
			}

			if _, err := os.Stat(path); err == nil && !force {
				return errors.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
			}

			if err := config.SaveToFile(config.Default(), path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	return cmd
}

// configPath returns the --config file or the default location
func configPath() string {
	if globalFlags.ConfigFile != "" {
		return globalFlags.ConfigFile
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return ""
	}
	return path
}
