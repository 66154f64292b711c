package process

import (
	"fmt"
	"io"
	"net/http"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.ServiceFactory = (*Factory)(nil)

// Factory builds the exposer and tunnel from settings.
type Factory struct {
	settings domain.Settings
	client   *http.Client
	output   io.Writer
}

// NewFactory creates a service factory. Child process output is written
// to output; nil discards it.
func NewFactory(settings domain.Settings, client *http.Client, output io.Writer) *Factory {
	if client == nil {
		client = &http.Client{Timeout: settings.RequestTimeout}
	}
	return &Factory{
		settings: settings,
		client:   client,
		output:   output,
	}
}

// NewExposer returns the local file server for port.
func (f *Factory) NewExposer(port int) driven.Service {
	return NewExposer(ExposerConfig{
		Command: f.settings.ExposerCommand,
		Dir:     f.settings.AssetsDir,
		Port:    port,
		Retry:   f.settings.Poll,
		Client:  f.client,
		Output:  f.output,
	})
}

// NewTunnel returns the tunnel forwarding to port.
func (f *Factory) NewTunnel(port int) driven.Tunnel {
	return NewTunnel(TunnelConfig{
		Command: f.settings.TunnelCommand,
		Dir:     f.settings.TunnelDir,
		Port:    port,
		APIURL:  fmt.Sprintf("http://127.0.0.1:%d", f.settings.TunnelAPIPort),
		Retry:   f.settings.Poll,
		Client:  f.client,
		Output:  f.output,
	})
}
