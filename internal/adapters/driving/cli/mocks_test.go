package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driving"
)

// mockMigrator implements driving.Migrator by replaying a scripted run
// through the callbacks it is given.
type mockMigrator struct {
	authErr error
	assets  []string
	failing map[string]bool
	err     error

	requests  []domain.AuthRequest
	confirmed *bool
}

var _ driving.Migrator = (*mockMigrator)(nil)

func (m *mockMigrator) Migrate(_ context.Context, req domain.AuthRequest, cb driving.Callbacks) (*domain.MigrationReport, error) {
	m.requests = append(m.requests, req)
	report := &domain.MigrationReport{RunID: "run-1", State: domain.RunStateFailed}

	if m.authErr != nil {
		return report, m.authErr
	}
	cb.Authenticated()

	ok := cb.Confirm()
	m.confirmed = &ok
	if !ok {
		report.Declined = true
		report.State = domain.RunStateDone
		return report, nil
	}

	cb.StateChanged(domain.RunStateExposing)
	cb.ServiceEvent("HTTP file server", domain.ServiceReady)
	cb.ServiceEvent("ngrok tunnel", domain.ServiceReady)

	for i, name := range m.assets {
		var err error
		if m.failing[name] {
			err = errors.New("upload rejected")
		}
		report.Results = append(report.Results, domain.AssetResult{Asset: domain.Asset{Name: name}, Err: err})
		cb.Progress(domain.Progress{Index: i + 1, Total: len(m.assets), Name: name, Err: err})
	}

	cb.ServiceEvent("ngrok tunnel", domain.ServiceStopped)
	cb.ServiceEvent("HTTP file server", domain.ServiceStopped)

	if m.err != nil {
		return report, m.err
	}
	report.State = domain.RunStateDone
	return report, nil
}

// setupCLITest installs migrator, feeds input to the root command and
// restores all package state afterwards.
func setupCLITest(m *mockMigrator, input string) (*bytes.Buffer, func()) {
	oldFactory := newMigrator

	if m != nil {
		newMigrator = func(string) (driving.Migrator, error) { return m, nil }
	} else {
		newMigrator = nil
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))

	return buf, func() {
		newMigrator = oldFactory
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}
}

// resetFlags clears flag variables, which cobra leaves set between executions.
func resetFlags() {
	verbose = false
	configDir = ""
	methodFlag = ""
	assumeYes = false
	apiKeyFlag = ""
	usernameFlag = ""
	passwordFlag = ""
}
