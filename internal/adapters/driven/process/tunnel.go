package process

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/ose-migrate/internal/logger"
)

// Ensure Tunnel implements the interface.
var _ driven.Tunnel = (*Tunnel)(nil)

// TunnelName is the display name of the tunnel process.
const TunnelName = "ngrok tunnel"

// errNoTunnels means the management API answered but nothing is registered yet.
var errNoTunnels = errors.New("no tunnels registered")

// TunnelConfig describes the tunnel process and its management API.
type TunnelConfig struct {
	// Command is the tunnel argv with domain.PortPlaceholder for the forwarded port.
	Command []string
	Dir     string
	Port    int

	// APIURL is the base URL of the tunnel's local management API.
	APIURL string

	// Retry bounds both readiness polling and public URL discovery.
	Retry  domain.RetryPolicy
	Client *http.Client
	Output io.Writer
}

// Tunnel is a process that forwards a public endpoint to a local port.
type Tunnel struct {
	*Process

	apiURL    string
	client    *http.Client
	discovery domain.RetryPolicy
}

// tunnelList is the body of GET /api/tunnels.
type tunnelList struct {
	Tunnels []struct {
		PublicURL string `json:"public_url"`
	} `json:"tunnels"`
}

// NewTunnel creates a tunnel process. It is ready once its management
// API answers.
func NewTunnel(cfg TunnelConfig) *Tunnel {
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	apiURL := strings.TrimRight(cfg.APIURL, "/")

	return &Tunnel{
		Process: New(Config{
			Name:    TunnelName,
			Command: domain.ExpandCommand(cfg.Command, cfg.Port),
			Dir:     cfg.Dir,
			Probe:   HTTPProbe(client, apiURL),
			Retry:   cfg.Retry,
			Output:  cfg.Output,
		}),
		apiURL:    apiURL,
		client:    client,
		discovery: cfg.Retry,
	}
}

// PublicURL polls the management API until a tunnel is registered and
// returns the first tunnel's public URL.
func (t *Tunnel) PublicURL(ctx context.Context) (string, error) {
	var publicURL string
	err := t.discovery.Poll(ctx, func(ctx context.Context) error {
		u, err := t.fetchPublicURL(ctx)
		if err != nil {
			return err
		}
		publicURL = u
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", domain.ErrTunnelDiscoveryTimeout, err)
	}

	logger.Debug("Tunnel public URL: %s", publicURL)
	return publicURL, nil
}

func (t *Tunnel) fetchPublicURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.apiURL+"/api/tunnels", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("list tunnels: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("list tunnels: status %d", resp.StatusCode)
	}

	var list tunnelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", fmt.Errorf("decode tunnel list: %w", err)
	}
	if len(list.Tunnels) == 0 || list.Tunnels[0].PublicURL == "" {
		return "", errNoTunnels
	}
	return list.Tunnels[0].PublicURL, nil
}
