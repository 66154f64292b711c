package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ose-migrate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/ose-migrate/internal/logger"
)

var apiKeyCmd = &cobra.Command{
	Use:   "api-key",
	Short: "Migrate using a Screenly API token",
	Long: `Authenticates with an API token and migrates every asset.

The token is read from --key or prompted for without echo.

Examples:
  ose-migrate api-key
  ose-migrate api-key --key "$SCREENLY_API_KEY" --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigration(cmd, domain.AuthMethodAPIKey, newPrompter(cmd))
	},
}

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Migrate using a Screenly username and password",
	Long: `Exchanges a username and password for a token and migrates every asset.

Missing values are prompted for; the password is read without echo.

Examples:
  ose-migrate credentials
  ose-migrate credentials --username me@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigration(cmd, domain.AuthMethodCredentials, newPrompter(cmd))
	},
}

// Flags for the migration commands.
var (
	apiKeyFlag   string
	usernameFlag string
	passwordFlag string
)

func init() {
	apiKeyCmd.Flags().StringVar(&apiKeyFlag, "key", "", "API token (prompted for if omitted)")
	credentialsCmd.Flags().StringVar(&usernameFlag, "username", "", "Account username (prompted for if omitted)")
	credentialsCmd.Flags().StringVar(&passwordFlag, "password", "", "Account password (prompted for if omitted)")

	rootCmd.AddCommand(apiKeyCmd)
	rootCmd.AddCommand(credentialsCmd)
}

// collectRequest builds the authentication request from flags and prompts.
func collectRequest(p *prompter, method domain.AuthMethod) (domain.AuthRequest, error) {
	req := domain.AuthRequest{Method: method}

	var err error
	switch method {
	case domain.AuthMethodAPIKey:
		req.APIKey = apiKeyFlag
		if req.APIKey == "" {
			if req.APIKey, err = p.askSecret("Enter your API token: "); err != nil {
				return req, err
			}
		}
	case domain.AuthMethodCredentials:
		req.Username = usernameFlag
		if req.Username == "" {
			if req.Username, err = p.ask("Username: "); err != nil {
				return req, err
			}
		}
		req.Password = passwordFlag
		if req.Password == "" {
			if req.Password, err = p.askSecret("Password: "); err != nil {
				return req, err
			}
		}
	}

	return req, req.Validate()
}

// runMigration collects credentials and drives one migration with console feedback.
func runMigration(cmd *cobra.Command, method domain.AuthMethod, p *prompter) error {
	migrator, err := requireMigrator()
	if err != nil {
		return err
	}

	req, err := collectRequest(p, method)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, arm, stop := interruptible(ctx)
	defer stop()

	out := newOutput(cmd.OutOrStdout(), styles.DefaultStyles())
	report, err := migrator.Migrate(ctx, req, driving.Callbacks{
		Authenticated: out.authenticated,
		Confirm: func() bool {
			if !confirmStart(ctx, p) {
				return false
			}
			arm()
			return true
		},
		StateChanged: func(state domain.RunState) {
			logger.Debug("State: %s", state)
			if state == domain.RunStateExposing {
				out.line("Exposing local assets...")
			}
		},
		ServiceEvent: out.service,
		Progress:     out.progress,
	})

	if err != nil {
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			out.authenticationFailed()
			return fmt.Errorf("%w: %w", errReported, err)
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	if report.Declined {
		out.line("Migration cancelled.")
		return nil
	}

	out.summary(report)
	return nil
}

// confirmStart asks whether to start the migration. A context cancelled
// while the question was open counts as a no.
func confirmStart(ctx context.Context, p *prompter) bool {
	if !assumeYes && !p.confirm("Do you want to start assets migration?") {
		return false
	}
	return ctx.Err() == nil
}

// interruptible returns a context that SIGINT and SIGTERM cancel once arm
// has been called. Before that the signals keep their default behaviour,
// so an interrupt at a prompt ends the program.
func interruptible(parent context.Context) (ctx context.Context, arm func(), stop func()) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 1)
	var once sync.Once

	arm = func() {
		once.Do(func() {
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			go func() {
				select {
				case sig := <-sigs:
					logger.Warn("Received %s, stopping migration", sig)
					cancel()
				case <-ctx.Done():
				}
			}()
		})
	}
	stop = func() {
		signal.Stop(sigs)
		cancel()
	}
	return ctx, arm, stop
}
