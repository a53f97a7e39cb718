//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"pricewatch/internal"
	"pricewatch/internal/controllers"
	"pricewatch/internal/notify"
	"pricewatch/internal/providers"
	"pricewatch/internal/refresh"
	"pricewatch/internal/scraper"
	"pricewatch/internal/services"
	"pricewatch/internal/storage"
	"pricewatch/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewDatabaseProvider,
		storage.NewUserRepository,
		storage.NewWatchlistRepository,
		storage.NewSummaryRepository,
		storage.NewNotificationStateRepository,

		scraper.NewScraperProvider,
		services.NewPriceService,
		notify.NewNotifierProvider,

		refresh.NewZstdCompressor,
		refresh.NewSnapshotManager,
		refresh.NewScheduler,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
