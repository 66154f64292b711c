package driven

import (
	"context"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
)

// PortAllocator finds an unused local TCP port.
type PortAllocator interface {
	// Allocate returns a free port or domain.ErrNoFreePort.
	Allocate(ctx context.Context) (int, error)
}

// Service is a transient external process the migration depends on.
type Service interface {
	// Name identifies the service in logs and messages.
	Name() string

	// Start launches the process and blocks until it is ready.
	// On failure no child process is left running.
	Start(ctx context.Context) error

	// Stop terminates the process. Calling Stop on a service that was
	// never started, or is already stopped, is a no-op.
	Stop() error

	// State returns the current lifecycle state.
	State() domain.ServiceState
}

// Tunnel is a Service that publishes a local port under a public URL.
type Tunnel interface {
	Service

	// PublicURL polls the tunnel until it reports a public URL.
	// Returns domain.ErrTunnelDiscoveryTimeout if none appears in time.
	PublicURL(ctx context.Context) (string, error)
}

// ServiceFactory builds the transient services for an allocated port.
type ServiceFactory interface {
	// NewExposer returns a service serving local asset storage on port.
	NewExposer(port int) Service

	// NewTunnel returns a tunnel forwarding a public endpoint to port.
	NewTunnel(port int) Tunnel
}
