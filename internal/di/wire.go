//go:build wireinject
// +build wireinject

package di

import (
	"FxPulse/pkg/config"
	"FxPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideBarCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Adapters
		ProvideMarketData,
		ProvideConfirmation,
		ProvideNotifier,
		ProvideCandleArchive,
		ProvideSignalPublisher,
		ProvideHub,

		// Use cases and HTTP surface
		ProvideMonitor,
		ProvideDashboardHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
