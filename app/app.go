// Package app assembles the engine and its collaborators from settings.
package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"okinoko_multichoice/config"
	"okinoko_multichoice/contract"
)

// App is what every cli command works against.
type App struct {
	Settings *config.Settings
	Log      *zap.Logger
	Store    contract.Store
	Oracle   *contract.StakingOracle
	Engine   *contract.Engine
	Registry *prometheus.Registry
}

// NewApp creates a new application instance
func NewApp(
	settings *config.Settings,
	log *zap.Logger,
	store contract.Store,
	oracle *contract.StakingOracle,
	engine *contract.Engine,
	registry *prometheus.Registry,
) *App {
	return &App{
		Settings: settings,
		Log:      log,
		Store:    store,
		Oracle:   oracle,
		Engine:   engine,
		Registry: registry,
	}
}
