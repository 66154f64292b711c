package file

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driven"
)

// Configuration keys read by LoadSettings.
const (
	KeyHome             = "paths.home"
	KeyDatabase         = "paths.database"
	KeyAssets           = "paths.assets"
	KeyAPIBaseURL       = "api.base_url"
	KeyAPITimeout       = "api.timeout_seconds"
	KeyUploadsPerSecond = "api.uploads_per_second"
	KeyPortStart        = "ports.start"
	KeyPortEnd          = "ports.end"
	KeyExposerCommand   = "exposer.command"
	KeyTunnelCommand    = "tunnel.command"
	KeyTunnelDir        = "tunnel.dir"
	KeyTunnelAPIPort    = "tunnel.api_port"
	KeyPollInterval     = "poll.interval_ms"
	KeyPollAttempts     = "poll.attempts"
)

// ErrUnknownKey is returned by SetSetting for keys LoadSettings does not read.
var ErrUnknownKey = errors.New("unknown configuration key")

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindCommand
)

var keyKinds = map[string]valueKind{
	KeyHome:             kindString,
	KeyDatabase:         kindString,
	KeyAssets:           kindString,
	KeyAPIBaseURL:       kindString,
	KeyAPITimeout:       kindInt,
	KeyUploadsPerSecond: kindFloat,
	KeyPortStart:        kindInt,
	KeyPortEnd:          kindInt,
	KeyExposerCommand:   kindCommand,
	KeyTunnelCommand:    kindCommand,
	KeyTunnelDir:        kindString,
	KeyTunnelAPIPort:    kindInt,
	KeyPollInterval:     kindInt,
	KeyPollAttempts:     kindInt,
}

// SetSetting parses raw as the type key holds and persists it in store.
// Commands are split on whitespace into their arguments.
func SetSetting(store driven.ConfigStore, key, raw string) error {
	kind, ok := keyKinds[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	raw = strings.TrimSpace(raw)
	var value any
	switch kind {
	case kindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s: expected a positive integer, got %q", key, raw)
		}
		value = n
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s: expected a number, got %q", key, raw)
		}
		value = f
	case kindCommand:
		args := strings.Fields(raw)
		if len(args) == 0 {
			return fmt.Errorf("%s: command must not be empty", key)
		}
		value = args
	default:
		if raw == "" {
			return fmt.Errorf("%s: value must not be empty", key)
		}
		value = raw
	}

	return store.Set(key, value)
}

// LoadSettings returns the defaults for home overlaid with any keys present in store.
// A configured paths.home re-derives the database and assets defaults from it.
func LoadSettings(store driven.ConfigStore, home string) domain.Settings {
	if h := store.GetString(KeyHome); h != "" {
		home = h
	}
	s := domain.DefaultSettings(home)

	if v := store.GetString(KeyDatabase); v != "" {
		s.DatabasePath = v
	}
	if v := store.GetString(KeyAssets); v != "" {
		s.AssetsDir = v
	}
	if v := store.GetString(KeyAPIBaseURL); v != "" {
		s.APIBaseURL = v
	}
	if v := store.GetInt(KeyAPITimeout); v > 0 {
		s.RequestTimeout = time.Duration(v) * time.Second
	}
	if _, ok := store.Get(KeyUploadsPerSecond); ok {
		s.UploadsPerSecond = store.GetFloat(KeyUploadsPerSecond)
	}
	if v := store.GetInt(KeyPortStart); v > 0 {
		s.PortRangeStart = v
	}
	if v := store.GetInt(KeyPortEnd); v > 0 {
		s.PortRangeEnd = v
	}
	if v := store.GetStringSlice(KeyExposerCommand); len(v) > 0 {
		s.ExposerCommand = v
	}
	if v := store.GetStringSlice(KeyTunnelCommand); len(v) > 0 {
		s.TunnelCommand = v
	}
	if v := store.GetString(KeyTunnelDir); v != "" {
		s.TunnelDir = v
	}
	if v := store.GetInt(KeyTunnelAPIPort); v > 0 {
		s.TunnelAPIPort = v
	}
	if v := store.GetInt(KeyPollInterval); v > 0 {
		s.Poll.Interval = time.Duration(v) * time.Millisecond
	}
	if v := store.GetInt(KeyPollAttempts); v > 0 {
		s.Poll.MaxAttempts = v
	}

	return s
}
