package services

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/ose-migrate/internal/logger"
)

// Ensure PortFinder implements the interface.
var _ driven.PortAllocator = (*PortFinder)(nil)

// dialTimeout bounds each connection attempt while scanning.
const dialTimeout = 200 * time.Millisecond

// PortFinder scans a fixed port range on the loopback interface.
type PortFinder struct {
	host  string
	start int
	end   int
}

// NewPortFinder creates a port finder for the inclusive range [start, end].
func NewPortFinder(start, end int) *PortFinder {
	return &PortFinder{host: "127.0.0.1", start: start, end: end}
}

// Allocate returns the first port in range that refuses a connection and can be bound.
func (f *PortFinder) Allocate(ctx context.Context) (int, error) {
	return findAvailablePort(ctx, f.host, f.start, f.end)
}

func findAvailablePort(ctx context.Context, host string, startPort, endPort int) (int, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	for port := startPort; port <= endPort; port++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		addr := net.JoinHostPort(host, strconv.Itoa(port))

		// Something is accepting connections here.
		if conn, err := dialer.DialContext(ctx, "tcp", addr); err == nil {
			conn.Close()
			continue
		}

		listener, err := net.Listen("tcp", addr)
		if err != nil {
			continue
		}
		listener.Close()

		logger.Debug("Allocated port %d", port)
		return port, nil
	}
	return 0, fmt.Errorf("%w: range %d-%d", domain.ErrNoFreePort, startPort, endPort)
}
