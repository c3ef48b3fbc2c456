//go:build wireinject
// +build wireinject

package di

import (
	"FuelDesk/pkg/config"
	"FuelDesk/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// The returned cleanup releases every connection opened while wiring.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,

		// Forecast service
		ProvideForecastGateway,

		// Use cases
		ProvideStateStore,
		ProvideDispatcher,
		ProvideConsole,
		ProvideJournalRecorder,

		// HTTP surface
		ProvideRateLimiter,
		ProvideStateHub,
		ProvideConsoleHandler,
		ProvidePageHandler,
		ProvideRenderer,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
