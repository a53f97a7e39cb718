package internal

import (
	"net/http"

	"pricewatch/internal/controllers"
	"pricewatch/internal/providers"
	"pricewatch/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/user", http.HandlerFunc(apiController.GetUser))
	routers.Put("/api/user", http.HandlerFunc(apiController.UpdateUser))
	routers.Get("/api/watchlist", http.HandlerFunc(apiController.GetWatchlist))
	routers.Post("/api/watchlist", http.HandlerFunc(apiController.AddToWatchlist))
	routers.Delete("/api/watchlist", http.HandlerFunc(apiController.RemoveFromWatchlist))
	routers.Get("/api/product", http.HandlerFunc(apiController.GetProduct))
	routers.Post("/api/refresh", http.HandlerFunc(apiController.TriggerRefresh))
	routers.Get("/api/refresh/status", http.HandlerFunc(apiController.RefreshStatus))
	return routers
}
