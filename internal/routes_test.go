package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/controllers"
	"pricewatch/internal/structures"
	"pricewatch/internal/testutil"
)

func newRouteTestController() *controllers.ApiController {
	conf := &structures.Config{
		Cache: structures.CacheConfig{UserTTL: time.Minute, ProductTTL: time.Minute},
	}
	return controllers.NewApiController(
		&testutil.MockLogger{},
		conf,
		testutil.NewMockUserRepository(),
		&testutil.MockWatchlistRepository{},
		testutil.NewMockPriceService(),
		&routeTestScheduler{},
		testutil.NewMockCache(),
	)
}

type routeTestScheduler struct{}

func (m *routeTestScheduler) Init()                           {}
func (m *routeTestScheduler) Stop()                           {}
func (m *routeTestScheduler) RunOnce(_ context.Context) error { return nil }
func (m *routeTestScheduler) IsRunning() bool                 { return false }
func (m *routeTestScheduler) Restore() error                  { return nil }
func (m *routeTestScheduler) Persist() error                  { return nil }
func (m *routeTestScheduler) LastRefresh() time.Time          { return time.Time{} }
func (m *routeTestScheduler) NextRefresh() time.Time          { return time.Time{} }

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	conf := &structures.Config{}
	router := InitRoutes(newRouteTestController(), conf)
	routes := router.GetRoutes()

	require.Len(t, routes, 8)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "GET /api/user")
	assert.Contains(t, urls, "PUT /api/user")
	assert.Contains(t, urls, "GET /api/watchlist")
	assert.Contains(t, urls, "POST /api/watchlist")
	assert.Contains(t, urls, "DELETE /api/watchlist")
	assert.Contains(t, urls, "GET /api/product")
	assert.Contains(t, urls, "POST /api/refresh")
	assert.Contains(t, urls, "GET /api/refresh/status")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	conf := &structures.Config{}
	router := InitRoutes(newRouteTestController(), conf)

	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	// GET /api/refresh is not registered, only POST is
	req := httptest.NewRequest(http.MethodGet, "/api/refresh", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// DELETE /api/product is not registered either
	req = httptest.NewRequest(http.MethodDelete, "/api/product", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
