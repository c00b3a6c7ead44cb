//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"okinoko_multichoice/config"
)

// InitApp creates a fully wired App instance
func InitApp(settings *config.Settings) (*App, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
