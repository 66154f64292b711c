package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Prints the configuration file location and the settings a migration
would run with, after defaults and the configuration file are combined.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Writes one value to the configuration file.

Keys use dot notation, for example:
  ose-migrate config set paths.assets /srv/screenly_assets
  ose-migrate config set api.uploads_per_second 2
  ose-migrate config set tunnel.command "ngrok http {port}"`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if writeSetting == nil {
		return errors.New("settings writer not configured")
	}

	key, value := args[0], args[1]
	if err := writeSetting(configDir, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfig(cmd *cobra.Command, _ []string) error {
	if loadSettings == nil {
		return errors.New("settings loader not configured")
	}

	settings, path, err := loadSettings(configDir)
	if err != nil {
		return err
	}

	cmd.Printf("Config file:        %s\n", path)
	cmd.Printf("Database:           %s\n", settings.DatabasePath)
	cmd.Printf("Assets directory:   %s\n", settings.AssetsDir)
	cmd.Printf("API:                %s\n", settings.APIBaseURL)
	cmd.Printf("Request timeout:    %s\n", settings.RequestTimeout)
	cmd.Printf("Uploads per second: %g\n", settings.UploadsPerSecond)
	cmd.Printf("Port range:         %d-%d\n", settings.PortRangeStart, settings.PortRangeEnd)
	cmd.Printf("Exposer command:    %s\n", strings.Join(settings.ExposerCommand, " "))
	cmd.Printf("Tunnel command:     %s\n", strings.Join(settings.TunnelCommand, " "))
	if settings.TunnelDir != "" {
		cmd.Printf("Tunnel directory:   %s\n", settings.TunnelDir)
	}
	cmd.Printf("Tunnel API port:    %d\n", settings.TunnelAPIPort)
	cmd.Printf("Readiness polling:  %d x %s\n", settings.Poll.MaxAttempts, settings.Poll.Interval)
	return nil
}
