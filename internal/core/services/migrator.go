package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/ose-migrate/internal/logger"
)

// Ensure Migrator implements the interface.
var _ driving.Migrator = (*Migrator)(nil)

// Migrator runs the migration pipeline:
// authenticate, expose, discover public URL, upload catalog, tear down.
type Migrator struct {
	auth      driving.Authenticator
	remote    driven.RemoteAPI
	catalog   driven.AssetCatalog
	ports     driven.PortAllocator
	factory   driven.ServiceFactory
	assetsDir string

	now      func() time.Time
	newRunID func() string
}

// MigratorOption configures optional Migrator behaviour.
type MigratorOption func(*Migrator)

// WithClock overrides the time source used for active flags and timestamps.
func WithClock(now func() time.Time) MigratorOption {
	return func(m *Migrator) {
		m.now = now
	}
}

// WithRunIDs overrides how run identifiers are generated.
func WithRunIDs(newRunID func() string) MigratorOption {
	return func(m *Migrator) {
		m.newRunID = newRunID
	}
}

// NewMigrator creates a new migration pipeline.
// assetsDir is the local asset storage root; assets under it are served
// through the tunnel, everything else must already be a remote URL.
func NewMigrator(
	auth driving.Authenticator,
	remote driven.RemoteAPI,
	catalog driven.AssetCatalog,
	ports driven.PortAllocator,
	factory driven.ServiceFactory,
	assetsDir string,
	opts ...MigratorOption,
) *Migrator {
	m := &Migrator{
		auth:      auth,
		remote:    remote,
		catalog:   catalog,
		ports:     ports,
		factory:   factory,
		assetsDir: assetsDir,
		now:       time.Now,
	}
	m.newRunID = func() string {
		return fmt.Sprintf("run-%d", m.now().UnixNano())
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// migrationRun is the mutable state of a single call to Migrate.
type migrationRun struct {
	session *domain.Session
	report  *domain.MigrationReport
	cb      driving.Callbacks
	exposer driven.Service
	tunnel  driven.Tunnel
}

func (r *migrationRun) setState(state domain.RunState) {
	r.session.State = state
	r.report.State = state
	logger.Debug("Run %s: %s", r.session.RunID, state)
	if r.cb.StateChanged != nil {
		r.cb.StateChanged(state)
	}
}

func (r *migrationRun) serviceEvent(svc driven.Service) {
	r.serviceState(svc.Name(), svc.State())
}

func (r *migrationRun) serviceState(name string, state domain.ServiceState) {
	if r.cb.ServiceEvent != nil {
		r.cb.ServiceEvent(name, state)
	}
}

// Migrate runs one migration. Teardown of whatever was started always
// happens before Migrate returns, including when a step panics.
func (m *Migrator) Migrate(
	ctx context.Context,
	req domain.AuthRequest,
	cb driving.Callbacks,
) (report *domain.MigrationReport, err error) {
	run := &migrationRun{
		session: &domain.Session{RunID: m.newRunID(), State: domain.RunStateIdle},
		cb:      cb,
	}
	run.report = &domain.MigrationReport{
		RunID:     run.session.RunID,
		State:     domain.RunStateIdle,
		StartedAt: m.now(),
	}
	report = run.report

	logger.Section("Migration " + run.session.RunID)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
		m.teardown(run)
		if err != nil {
			logger.Debug("Migration %s failed: %v", run.session.RunID, err)
			run.setState(domain.RunStateFailed)
		} else {
			run.setState(domain.RunStateDone)
		}
		run.report.FinishedAt = m.now()
	}()

	return report, m.run(ctx, req, run)
}

func (m *Migrator) run(ctx context.Context, req domain.AuthRequest, run *migrationRun) error {
	// 1. Authenticate
	run.setState(domain.RunStateAuthenticating)
	token, err := m.auth.Resolve(ctx, req)
	if err != nil {
		return err
	}
	run.session.Token = token
	logger.Info("Authenticated with %s", req.Method.Description())
	if run.cb.Authenticated != nil {
		run.cb.Authenticated()
	}

	if run.cb.Confirm != nil && !run.cb.Confirm() {
		logger.Info("Migration declined")
		run.report.Declined = true
		return nil
	}

	// 2. Expose local storage
	run.setState(domain.RunStateExposing)
	if err := m.expose(ctx, run); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStartupFailure, err)
	}

	// 3. Read the catalog
	run.setState(domain.RunStateMigrating)
	assets, err := m.catalog.ListAssets(ctx)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	slices.SortStableFunc(assets, func(a, b domain.Asset) int {
		return cmp.Compare(a.PlayOrder, b.PlayOrder)
	})
	logger.Info("Read %d assets from catalog", len(assets))

	// 4. Upload each asset in play order
	total := len(assets)
	run.report.Results = make([]domain.AssetResult, 0, total)
	for i, asset := range assets {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("migration interrupted after %d of %d assets: %w", i, total, err)
		}

		result := m.upload(ctx, run.session, asset)
		run.report.Results = append(run.report.Results, result)

		if run.cb.Progress != nil {
			run.cb.Progress(domain.Progress{Index: i + 1, Total: total, Name: asset.Name, Err: result.Err})
		}
	}

	logger.Info("Uploaded %d of %d assets", run.report.Succeeded(), total)
	return nil
}

// expose allocates a port, starts the exposer and tunnel, and discovers the public URL.
// Services are recorded on run before they are started so teardown sees them
// even when Start fails.
func (m *Migrator) expose(ctx context.Context, run *migrationRun) error {
	port, err := m.ports.Allocate(ctx)
	if err != nil {
		return fmt.Errorf("allocate port: %w", err)
	}
	run.session.Port = port
	run.report.Port = port
	logger.Info("Using local port %d", port)

	run.exposer = m.factory.NewExposer(port)
	run.serviceState(run.exposer.Name(), domain.ServiceStarting)
	err = run.exposer.Start(ctx)
	run.serviceEvent(run.exposer)
	if err != nil {
		return fmt.Errorf("start %s: %w", run.exposer.Name(), err)
	}

	run.tunnel = m.factory.NewTunnel(port)
	run.serviceState(run.tunnel.Name(), domain.ServiceStarting)
	err = run.tunnel.Start(ctx)
	run.serviceEvent(run.tunnel)
	if err != nil {
		return fmt.Errorf("start %s: %w", run.tunnel.Name(), err)
	}

	publicURL, err := run.tunnel.PublicURL(ctx)
	if err != nil {
		return fmt.Errorf("discover public url: %w", err)
	}
	run.session.PublicURL = publicURL
	run.report.PublicURL = publicURL
	logger.Info("Assets exposed at %s", publicURL)
	return nil
}

// upload sends one asset to the remote API. Failures are recorded, never returned.
func (m *Migrator) upload(ctx context.Context, session *domain.Session, asset domain.Asset) domain.AssetResult {
	result := domain.AssetResult{Asset: asset}

	sourceURL, err := domain.EffectiveSourceURL(asset, m.assetsDir, session.PublicURL)
	if err != nil {
		logger.Warn("Skipping asset %s: %v", asset.ID, err)
		result.Err = err
		return result
	}
	result.SourceURL = sourceURL

	remote := domain.RemoteAsset{Title: asset.Name, SourceURL: sourceURL}
	if err := m.remote.CreateAsset(ctx, session.Token, remote); err != nil {
		logger.Warn("Upload of asset %s failed: %v", asset.ID, err)
		result.Err = err
		return result
	}

	logger.Debug("Uploaded asset %s (%s) from %s", asset.ID, asset.Name, sourceURL)
	return result
}

// teardown stops the tunnel, then the exposer. Either may be nil.
func (m *Migrator) teardown(run *migrationRun) {
	if run.session.State != domain.RunStateIdle {
		run.setState(domain.RunStateTearingDown)
	}

	if run.tunnel != nil {
		m.stop(run, run.tunnel)
	}
	if run.exposer != nil {
		m.stop(run, run.exposer)
	}
}

func (m *Migrator) stop(run *migrationRun, svc driven.Service) {
	if err := svc.Stop(); err != nil {
		logger.Warn("Stopping %s: %v", svc.Name(), err)
	}
	run.serviceEvent(svc)
}
