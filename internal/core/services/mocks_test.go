package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driven"
)

// --- Fakes for driven ports ---

// eventLog records calls across fakes so tests can assert ordering.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

// mockRemoteAPI implements driven.RemoteAPI.
type mockRemoteAPI struct {
	log *eventLog

	validateErr error
	exchangeTok domain.Token
	exchangeErr error

	// createErrs maps asset titles to the error CreateAsset returns for them.
	createErrs map[string]error
	created    []domain.RemoteAsset
	tokens     []domain.Token
}

var _ driven.RemoteAPI = (*mockRemoteAPI)(nil)

func (m *mockRemoteAPI) ValidateAPIKey(_ context.Context, key string) error {
	m.log.add("validate:%s", key)
	return m.validateErr
}

func (m *mockRemoteAPI) ExchangeCredentials(_ context.Context, username, _ string) (domain.Token, error) {
	m.log.add("exchange:%s", username)
	return m.exchangeTok, m.exchangeErr
}

func (m *mockRemoteAPI) CreateAsset(_ context.Context, token domain.Token, asset domain.RemoteAsset) error {
	m.log.add("create:%s", asset.Title)
	m.created = append(m.created, asset)
	m.tokens = append(m.tokens, token)
	return m.createErrs[asset.Title]
}

// mockCatalog implements driven.AssetCatalog.
type mockCatalog struct {
	log    *eventLog
	assets []domain.Asset
	err    error
	panic  bool
}

func (m *mockCatalog) ListAssets(_ context.Context) ([]domain.Asset, error) {
	m.log.add("catalog")
	if m.panic {
		panic("catalog exploded")
	}
	return append([]domain.Asset(nil), m.assets...), m.err
}

// mockPorts implements driven.PortAllocator.
type mockPorts struct {
	log   *eventLog
	port  int
	err   error
	calls int
}

func (m *mockPorts) Allocate(_ context.Context) (int, error) {
	m.calls++
	m.log.add("allocate")
	return m.port, m.err
}

// mockService implements driven.Service.
type mockService struct {
	log      *eventLog
	name     string
	startErr error
	state    domain.ServiceState
	starts   int
	stops    int
}

func (s *mockService) Name() string { return s.name }

func (s *mockService) Start(_ context.Context) error {
	s.starts++
	s.log.add("start:%s", s.name)
	if s.startErr != nil {
		s.state = domain.ServiceFailedToStart
		return s.startErr
	}
	s.state = domain.ServiceReady
	return nil
}

func (s *mockService) Stop() error {
	s.stops++
	s.log.add("stop:%s", s.name)
	if s.state == domain.ServiceReady {
		s.state = domain.ServiceStopped
	}
	return nil
}

func (s *mockService) State() domain.ServiceState {
	if s.state == "" {
		return domain.ServiceNotStarted
	}
	return s.state
}

// mockTunnel implements driven.Tunnel.
type mockTunnel struct {
	mockService
	publicURL string
	urlErr    error
}

func (t *mockTunnel) PublicURL(_ context.Context) (string, error) {
	t.log.add("discover")
	return t.publicURL, t.urlErr
}

// mockFactory implements driven.ServiceFactory.
type mockFactory struct {
	exposer     *mockService
	tunnel      *mockTunnel
	exposerPort int
	tunnelPort  int
}

func (f *mockFactory) NewExposer(port int) driven.Service {
	f.exposerPort = port
	return f.exposer
}

func (f *mockFactory) NewTunnel(port int) driven.Tunnel {
	f.tunnelPort = port
	return f.tunnel
}
