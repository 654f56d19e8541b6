// Package app wires configuration, storage, and services into one unit.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kellanreed/folio/internal/common"
	"github.com/kellanreed/folio/internal/interfaces"
	"github.com/kellanreed/folio/internal/services/asset"
	"github.com/kellanreed/folio/internal/services/portfolio"
	"github.com/kellanreed/folio/internal/storage/surrealdb"
)

// App holds the application's shared dependencies.
type App struct {
	Config  *common.Config
	Logger  *common.Logger
	Storage interfaces.StorageManager

	PortfolioService interfaces.PortfolioService
	AssetService     interfaces.AssetService

	StartupTime time.Time
}

// NewApp builds the full dependency graph. Configuration is read from
// configPath when given, otherwise from FOLIO_CONFIG or a folio.toml next
// to the binary.
func NewApp(configPath string) (*App, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{os.Getenv("FOLIO_CONFIG"), binaryDirConfig()}
	}

	config, err := common.LoadConfig(paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storage, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	app := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storage,
		PortfolioService: portfolio.NewService(storage, logger),
		AssetService:     asset.NewService(storage, logger),
		StartupTime:      time.Now(),
	}

	logger.Info().
		Str("environment", config.Environment).
		Str("storage", config.Storage.Address).
		Msg("Application initialized")

	return app, nil
}

// Close releases the app's resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}

func binaryDirConfig() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(exe), "folio.toml")
}
