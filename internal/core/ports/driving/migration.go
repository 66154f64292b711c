package driving

import (
	"context"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
)

// Migrator runs a complete migration: authenticate, expose local storage,
// upload every catalog asset, tear down.
type Migrator interface {
	// Migrate runs one migration. The returned report is non-nil even when
	// an error is returned, and teardown has always completed by the time
	// Migrate returns.
	Migrate(ctx context.Context, req domain.AuthRequest, cb Callbacks) (*domain.MigrationReport, error)
}

// Callbacks let the caller observe and steer a running migration.
// Every field is optional.
type Callbacks struct {
	// Authenticated is called once the token has been resolved.
	Authenticated func()

	// Confirm is asked before any transient service starts.
	// Returning false ends the run without migrating.
	Confirm func() bool

	// StateChanged is called on every run state transition.
	StateChanged func(state domain.RunState)

	// ServiceEvent reports start and stop of the transient services.
	ServiceEvent func(name string, state domain.ServiceState)

	// Progress is called after each asset, in play order.
	Progress func(p domain.Progress)
}
