// Command ose-migrate moves the assets of a Screenly OSE player to a Screenly account.
package main

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ose-migrate/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ose-migrate/internal/adapters/driven/process"
	"github.com/custodia-labs/ose-migrate/internal/adapters/driven/remote"
	"github.com/custodia-labs/ose-migrate/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ose-migrate/internal/adapters/driving/cli"
	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/ose-migrate/internal/core/services"
	"github.com/custodia-labs/ose-migrate/internal/logger"
)

// version is set via -ldflags "-X main.version=...".
var version = "dev"

// probeTimeout bounds each readiness and tunnel discovery request.
const probeTimeout = 10 * time.Second

func main() {
	cli.SetVersion(version)
	cli.SetSettingsLoader(loadSettings)
	cli.SetSettingWriter(writeSetting)
	cli.SetMigratorFactory(buildMigrator)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings reads the configuration in configDir over the defaults.
func loadSettings(configDir string) (domain.Settings, string, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return domain.Settings{}, "", err
	}
	return file.LoadSettings(store, os.Getenv("HOME")), store.Path(), nil
}

// writeSetting stores one value in the configuration in configDir.
func writeSetting(configDir, key, value string) error {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return err
	}
	return file.SetSetting(store, key, value)
}

// buildMigrator wires the adapters into the migration pipeline.
func buildMigrator(configDir string) (driving.Migrator, error) {
	settings, _, err := loadSettings(configDir)
	if err != nil {
		return nil, err
	}

	api := remote.NewClient(remote.Config{
		BaseURL:          settings.APIBaseURL,
		Timeout:          settings.RequestTimeout,
		UploadsPerSecond: settings.UploadsPerSecond,
	})

	// Child process output is only interesting when debugging.
	var childOutput io.Writer
	if logger.IsVerbose() {
		childOutput = os.Stderr
	}
	factory := process.NewFactory(settings, &http.Client{Timeout: probeTimeout}, childOutput)

	return services.NewMigrator(
		services.NewAuthenticator(api),
		api,
		sqlite.NewCatalog(settings.DatabasePath),
		services.NewPortFinder(settings.PortRangeStart, settings.PortRangeEnd),
		factory,
		settings.AssetsDir,
		services.WithRunIDs(uuid.NewString),
	), nil
}
