// Package cli provides the command line interface for ose-migrate.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ose-migrate/internal/adapters/driving/tui/menu"
	"github.com/custodia-labs/ose-migrate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/ose-migrate/internal/logger"
)

// version is set at build time.
var version = "dev"

// MigratorFactory builds a migrator from the configuration in configDir.
type MigratorFactory func(configDir string) (driving.Migrator, error)

// SettingsLoader returns the effective settings and the configuration file they came from.
type SettingsLoader func(configDir string) (domain.Settings, string, error)

// SettingWriter persists one configuration value given as text.
type SettingWriter func(configDir, key, value string) error

// Services injected by main.
var (
	newMigrator  MigratorFactory
	loadSettings SettingsLoader
	writeSetting SettingWriter
)

// Global flags.
var (
	verbose    bool
	configDir  string
	methodFlag string
	assumeYes  bool
)

var rootCmd = &cobra.Command{
	Use:   "ose-migrate",
	Short: "Migrate Screenly OSE assets to Screenly",
	Long: `Migrates every asset of a Screenly OSE player to a Screenly account.

Local files are served through a temporary HTTP file server and an ngrok
tunnel so the remote API can fetch them. Both are stopped when the migration
finishes, fails or is interrupted.

Run without a subcommand to choose the authentication method interactively.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(
		&configDir, "config-dir", "", "Configuration directory (default ~/.ose-migrate)")
	rootCmd.PersistentFlags().BoolVarP(
		&assumeYes, "yes", "y", false, "Start the migration without asking for confirmation")
	rootCmd.Flags().StringVarP(
		&methodFlag, "method", "m", "", "Authentication method: 1 (API token), 2 (credentials) or 0 (exit)")
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetMigratorFactory sets the factory used to build the migration pipeline.
func SetMigratorFactory(f MigratorFactory) {
	newMigrator = f
}

// SetSettingsLoader sets the loader used by the config command.
func SetSettingsLoader(f SettingsLoader) {
	loadSettings = f
}

// SetSettingWriter sets the writer used by the config set command.
func SetSettingWriter(f SettingWriter) {
	writeSetting = f
}

// errReported marks errors the command has already shown to the user.
var errReported = errors.New("already reported")

// Execute runs the root command and prints any error it returns once.
func Execute() error {
	err := rootCmd.Execute()
	reportError(rootCmd, err)
	return err
}

func reportError(cmd *cobra.Command, err error) {
	if err == nil || errors.Is(err, errReported) {
		return
	}
	cmd.PrintErrln(styles.DefaultStyles().Error.Render("Error: " + err.Error()))
}

func runRoot(cmd *cobra.Command, _ []string) error {
	s := styles.DefaultStyles()
	cmd.Println(s.RenderBanner())
	cmd.Println()

	p := newPrompter(cmd)
	method, err := resolveMethod(cmd, s, p)
	if err != nil {
		return err
	}
	if method == domain.AuthMethodExit {
		cmd.Println("Exiting without migrating.")
		return nil
	}

	return runMigration(cmd, method, p)
}

// resolveMethod takes the method from --method, or asks for it.
func resolveMethod(cmd *cobra.Command, s *styles.Styles, p *prompter) (domain.AuthMethod, error) {
	if methodFlag != "" {
		return domain.ParseAuthMethod(methodFlag)
	}
	return chooseMethod(cmd, s, p)
}

// chooseMethod shows the menu on a terminal and falls back to a
// numbered prompt otherwise.
func chooseMethod(cmd *cobra.Command, s *styles.Styles, p *prompter) (domain.AuthMethod, error) {
	if p.file != nil {
		return menu.Run(p.file, cmd.OutOrStdout(), s)
	}

	for _, item := range menu.DefaultItems() {
		cmd.Printf("  %s. %s\n", item.Key, item.Label)
	}
	answer, err := p.ask("Choose authentication method: ")
	if err != nil {
		return "", err
	}
	method, err := domain.ParseAuthMethod(answer)
	if err != nil {
		return "", fmt.Errorf("choose authentication method: %w", err)
	}
	return method, nil
}

// requireMigrator builds the migrator or reports that none is configured.
func requireMigrator() (driving.Migrator, error) {
	if newMigrator == nil {
		return nil, errors.New("migration service not configured")
	}
	return newMigrator(configDir)
}
