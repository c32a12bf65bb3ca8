//go:build wireinject
// +build wireinject

package di

import (
	"CycleWatch/pkg/config"
	"CycleWatch/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideSnapshotStore,
		ProvideMarketDataSource,
		ProvideSentimentSource,

		// Use cases
		ProvideThresholds,
		ProvideRefresher,

		// HTTP surface
		ProvideHub,
		ProvideDashboardHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
