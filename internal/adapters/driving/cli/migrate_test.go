package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driving"
)

func TestAPIKeyCmd_Use(t *testing.T) {
	assert.Equal(t, "api-key", apiKeyCmd.Use)
	assert.NotNil(t, apiKeyCmd.Flags().Lookup("key"))
}

func TestCredentialsCmd_Use(t *testing.T) {
	assert.Equal(t, "credentials", credentialsCmd.Use)
	assert.NotNil(t, credentialsCmd.Flags().Lookup("username"))
	assert.NotNil(t, credentialsCmd.Flags().Lookup("password"))
}

func TestAPIKeyCmd_FullRun(t *testing.T) {
	m := &mockMigrator{
		assets:  []string{"Welcome", "Menu"},
		failing: map[string]bool{"Menu": true},
	}
	buf, cleanup := setupCLITest(m, "")
	defer cleanup()

	rootCmd.SetArgs([]string{"api-key", "--key", "k-123", "--yes"})
	err := rootCmd.Execute()

	require.NoError(t, err)
	require.Len(t, m.requests, 1)
	assert.Equal(t, domain.AuthRequest{Method: domain.AuthMethodAPIKey, APIKey: "k-123"}, m.requests[0])

	output := buf.String()
	assert.Contains(t, output, "Successful authentication")
	assert.Contains(t, output, "Exposing local assets...")
	assert.Contains(t, output, "HTTP file server started")
	assert.Contains(t, output, "ngrok tunnel started")
	assert.Contains(t, output, "50.0% Asset in migration progress: Welcome")
	assert.Contains(t, output, "100.0% Asset in migration progress: Menu")
	assert.Contains(t, output, "(failed)")
	assert.Contains(t, output, "ngrok tunnel stopped")
	assert.Contains(t, output, "HTTP file server stopped")
	assert.Contains(t, output, "Migration completed successfully")
	assert.Contains(t, output, "Migrated 1 of 2 assets")
	assert.Contains(t, output, "1 assets failed:")
	assert.Contains(t, output, "  - Menu: upload rejected")
}

func TestAPIKeyCmd_PromptsForKeyAndConfirmation(t *testing.T) {
	m := &mockMigrator{assets: []string{"Welcome"}}
	buf, cleanup := setupCLITest(m, "k-456\nyes\n")
	defer cleanup()

	rootCmd.SetArgs([]string{"api-key"})
	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Enter your API token: ")
	assert.Contains(t, buf.String(), "Do you want to start assets migration? [y/N]: ")
	require.Len(t, m.requests, 1)
	assert.Equal(t, "k-456", m.requests[0].APIKey)
	require.NotNil(t, m.confirmed)
	assert.True(t, *m.confirmed)
}

func TestAPIKeyCmd_Declined(t *testing.T) {
	m := &mockMigrator{assets: []string{"Welcome"}}
	buf, cleanup := setupCLITest(m, "n\n")
	defer cleanup()

	rootCmd.SetArgs([]string{"api-key", "--key", "k"})
	err := rootCmd.Execute()

	require.NoError(t, err)
	require.NotNil(t, m.confirmed)
	assert.False(t, *m.confirmed)
	assert.Contains(t, buf.String(), "Migration cancelled.")
	assert.NotContains(t, buf.String(), "Migration completed successfully")
}

func TestAPIKeyCmd_ConfirmationEndOfInputDeclines(t *testing.T) {
	m := &mockMigrator{}
	buf, cleanup := setupCLITest(m, "")
	defer cleanup()

	rootCmd.SetArgs([]string{"api-key", "--key", "k"})
	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Migration cancelled.")
}

func TestAPIKeyCmd_AuthenticationFailed(t *testing.T) {
	m := &mockMigrator{authErr: fmt.Errorf("%w: api key rejected", domain.ErrAuthenticationFailed)}
	buf, cleanup := setupCLITest(m, "")
	defer cleanup()

	rootCmd.SetArgs([]string{"api-key", "--key", "bad", "--yes"})
	err := rootCmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	assert.Contains(t, buf.String(), "Failed authentication")
	assert.NotContains(t, buf.String(), "Successful authentication")
}

func TestAPIKeyCmd_EmptyKey(t *testing.T) {
	m := &mockMigrator{}
	_, cleanup := setupCLITest(m, "\n")
	defer cleanup()

	rootCmd.SetArgs([]string{"api-key"})
	err := rootCmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, m.requests)
}

func TestAPIKeyCmd_PipelineFailure(t *testing.T) {
	m := &mockMigrator{err: fmt.Errorf("%w: tunnel exited", domain.ErrStartupFailure)}
	_, cleanup := setupCLITest(m, "")
	defer cleanup()

	rootCmd.SetArgs([]string{"api-key", "--key", "k", "--yes"})
	err := rootCmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStartupFailure)
	assert.Contains(t, err.Error(), "migration failed")
}

func TestAPIKeyCmd_NoMigrator(t *testing.T) {
	_, cleanup := setupCLITest(nil, "")
	defer cleanup()

	rootCmd.SetArgs([]string{"api-key", "--key", "k"})
	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration service not configured")
}

func TestAPIKeyCmd_FactoryError(t *testing.T) {
	_, cleanup := setupCLITest(&mockMigrator{}, "")
	defer cleanup()
	newMigrator = func(string) (driving.Migrator, error) {
		return nil, errors.New("bad config")
	}

	rootCmd.SetArgs([]string{"api-key", "--key", "k"})
	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad config")
}

func TestAPIKeyCmd_PassesConfigDir(t *testing.T) {
	m := &mockMigrator{}
	_, cleanup := setupCLITest(m, "")
	defer cleanup()

	var gotDir string
	newMigrator = func(dir string) (driving.Migrator, error) {
		gotDir = dir
		return m, nil
	}

	rootCmd.SetArgs([]string{"api-key", "--key", "k", "--yes", "--config-dir", "/tmp/ose"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "/tmp/ose", gotDir)
}

func TestCredentialsCmd_Flags(t *testing.T) {
	m := &mockMigrator{}
	_, cleanup := setupCLITest(m, "")
	defer cleanup()

	rootCmd.SetArgs([]string{"credentials", "--username", "alice", "--password", "pw", "--yes"})
	err := rootCmd.Execute()

	require.NoError(t, err)
	require.Len(t, m.requests, 1)
	assert.Equal(t, domain.AuthRequest{
		Method:   domain.AuthMethodCredentials,
		Username: "alice",
		Password: "pw",
	}, m.requests[0])
}

func TestCredentialsCmd_PromptsForMissing(t *testing.T) {
	m := &mockMigrator{}
	buf, cleanup := setupCLITest(m, "s3cret\n")
	defer cleanup()

	rootCmd.SetArgs([]string{"credentials", "--username", "alice", "--yes"})
	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Username: ")
	assert.Contains(t, buf.String(), "Password: ")
	require.Len(t, m.requests, 1)
	assert.Equal(t, "s3cret", m.requests[0].Password)
}

func TestCredentialsCmd_MissingPassword(t *testing.T) {
	m := &mockMigrator{}
	_, cleanup := setupCLITest(m, "alice\n")
	defer cleanup()

	rootCmd.SetArgs([]string{"credentials"})
	err := rootCmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, errNoInput)
	assert.Empty(t, m.requests)
}

func TestMigrate_NoAssets(t *testing.T) {
	m := &mockMigrator{}
	buf, cleanup := setupCLITest(m, "")
	defer cleanup()

	rootCmd.SetArgs([]string{"api-key", "--key", "k", "--yes"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, buf.String(), "No assets to migrate")
}

func TestAPIKeyCmd_ErrorReportedOnce(t *testing.T) {
	m := &mockMigrator{err: fmt.Errorf("%w: tunnel exited", domain.ErrStartupFailure)}
	buf, cleanup := setupCLITest(m, "")
	defer cleanup()

	rootCmd.SetArgs([]string{"api-key", "--key", "k", "--yes"})
	err := Execute()

	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), "tunnel exited"))
	assert.Contains(t, buf.String(), "Error: migration failed")
}

func TestAPIKeyCmd_AuthenticationFailedReportedOnce(t *testing.T) {
	m := &mockMigrator{authErr: fmt.Errorf("%w: api key rejected", domain.ErrAuthenticationFailed)}
	buf, cleanup := setupCLITest(m, "")
	defer cleanup()

	rootCmd.SetArgs([]string{"api-key", "--key", "bad", "--yes"})
	err := Execute()

	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), "Failed authentication"))
	assert.NotContains(t, buf.String(), "Error:")
	assert.NotContains(t, buf.String(), "api key rejected")
}

func TestConfirmStart(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name      string
		ctx       context.Context
		input     string
		assumeYes bool
		want      bool
	}{
		{"answered yes", context.Background(), "y\n", false, true},
		{"answered no", context.Background(), "n\n", false, false},
		{"yes after interrupt", cancelled, "yes\n", false, false},
		{"assume yes", context.Background(), "", true, true},
		{"assume yes after interrupt", cancelled, "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer resetFlags()
			assumeYes = tt.assumeYes
			p, _ := newTestPrompter(tt.input)

			assert.Equal(t, tt.want, confirmStart(tt.ctx, p))
		})
	}
}

func TestInterruptible_CancelsOnlyOnceArmed(t *testing.T) {
	ctx, arm, stop := interruptible(context.Background())
	defer stop()

	assert.NoError(t, ctx.Err())

	arm()
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled after SIGTERM")
	}
}

func TestInterruptible_StopCancels(t *testing.T) {
	ctx, _, stop := interruptible(context.Background())

	stop()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
