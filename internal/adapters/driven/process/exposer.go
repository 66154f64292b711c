package process

import (
	"fmt"
	"io"
	"net/http"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
)

// ExposerName is the display name of the local file server.
const ExposerName = "HTTP file server"

// ExposerConfig describes the local static file server.
type ExposerConfig struct {
	// Command is the server argv with domain.PortPlaceholder for the port.
	Command []string

	// Dir is the directory served, normally the local asset storage root.
	Dir string

	Port   int
	Retry  domain.RetryPolicy
	Client *http.Client
	Output io.Writer
}

// NewExposer creates a process serving Dir over HTTP on Port.
// It is ready once a plain GET to the port returns any response.
func NewExposer(cfg ExposerConfig) *Process {
	return New(Config{
		Name:    ExposerName,
		Command: domain.ExpandCommand(cfg.Command, cfg.Port),
		Dir:     cfg.Dir,
		Probe:   HTTPProbe(cfg.Client, fmt.Sprintf("http://127.0.0.1:%d/", cfg.Port)),
		Retry:   cfg.Retry,
		Output:  cfg.Output,
	})
}
