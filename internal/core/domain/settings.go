package domain

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// PortPlaceholder is replaced by the allocated port in process commands.
const PortPlaceholder = "{port}"

// DefaultHome is used when $HOME is not set.
const DefaultHome = "/home/pi"

// Settings holds the runtime configuration of a migration.
type Settings struct {
	HomeDir      string
	DatabasePath string
	AssetsDir    string

	APIBaseURL       string
	RequestTimeout   time.Duration
	UploadsPerSecond float64

	PortRangeStart int
	PortRangeEnd   int

	ExposerCommand []string
	TunnelCommand  []string
	TunnelDir      string
	TunnelAPIPort  int

	Poll RetryPolicy
}

// DefaultSettings returns the settings used when no configuration overrides them.
func DefaultSettings(home string) Settings {
	if home == "" {
		home = DefaultHome
	}
	return Settings{
		HomeDir:          home,
		DatabasePath:     filepath.Join(home, ".screenly", "screenly.db"),
		AssetsDir:        filepath.Join(home, "screenly_assets"),
		APIBaseURL:       "https://api.screenlyapp.com",
		RequestTimeout:   30 * time.Second,
		UploadsPerSecond: 5,
		PortRangeStart:   8000,
		PortRangeEnd:     9999,
		ExposerCommand:   []string{"python3", "-m", "http.server", PortPlaceholder},
		TunnelCommand:    []string{"./ngrok", "http", PortPlaceholder},
		TunnelAPIPort:    4040,
		Poll:             DefaultRetryPolicy(),
	}
}

// ExpandCommand substitutes the allocated port into a command template.
func ExpandCommand(template []string, port int) []string {
	out := make([]string, len(template))
	p := strconv.Itoa(port)
	for i, arg := range template {
		out[i] = strings.ReplaceAll(arg, PortPlaceholder, p)
	}
	return out
}
