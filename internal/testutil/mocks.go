// Package testutil holds shared hand-written mocks for unit tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pricewatch/internal/models"
	"pricewatch/internal/providers"
	"pricewatch/internal/storage"
)

// MockLogger implements providers.Logger and records formatted entries.
type MockLogger struct {
	mu      sync.Mutex
	Entries []string
}

func (m *MockLogger) record(level string, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, level+": "+fmt.Sprintf(format, args...))
}

func (m *MockLogger) Errorf(_ providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", format, args...)
}

func (m *MockLogger) Warnf(_ providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", format, args...)
}

func (m *MockLogger) Infof(_ providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", format, args...)
}

func (m *MockLogger) Debugf(_ providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", format, args...)
}

func (m *MockLogger) Fatalf(_ providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", format, args...)
}

func (m *MockLogger) Close() {}

// Logged returns a copy of the recorded entries.
func (m *MockLogger) Logged() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Entries))
	copy(out, m.Entries)
	return out
}

// MockCache is an in-memory providers.CacheProviderInterface without TTL
// expiry.
type MockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func (m *MockCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// MockMetrics counts calls to the metrics provider.
type MockMetrics struct {
	mu                sync.Mutex
	Requests          int
	CacheHits         int
	CacheMisses       int
	ProductsRefreshed int
	FetchFailures     int
	NotificationsSent int
	RefreshDurations  int
	LastRefresh       time.Time
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncProductsRefreshed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProductsRefreshed++
}

func (m *MockMetrics) IncFetchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchFailures++
}

func (m *MockMetrics) IncNotificationsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotificationsSent++
}

func (m *MockMetrics) ObserveRefreshDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefreshDurations++
}

func (m *MockMetrics) SetLastRefreshTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRefresh = t
}

// MockScraper returns canned payloads per product URL.
type MockScraper struct {
	mu       sync.Mutex
	Payloads map[string][]byte
	Err      error
	Calls    []string
}

func (m *MockScraper) FetchRawPriceData(_ context.Context, productURL string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, productURL)
	if m.Err != nil {
		return nil, m.Err
	}
	payload, ok := m.Payloads[productURL]
	if !ok {
		return nil, fmt.Errorf("no payload for %s", productURL)
	}
	return payload, nil
}

// MockUserRepository keeps users in a map.
type MockUserRepository struct {
	mu    sync.Mutex
	Users map[string]*models.User
	Err   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*models.User)}
}

func (m *MockUserRepository) GetOrCreate(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if user, ok := m.Users[username]; ok {
		clone := *user
		return &clone, nil
	}
	user := &models.User{
		Username:                  username,
		NotificationFrequencyDays: 1,
		RetailerExclusions:        []string{},
	}
	m.Users[username] = user
	clone := *user
	return &clone, nil
}

func (m *MockUserRepository) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	clone := *user
	m.Users[user.Username] = &clone
	return nil
}

// MockWatchlistRepository keeps watchlist entries in insertion order.
type MockWatchlistRepository struct {
	mu      sync.Mutex
	Entries []models.WatchlistEntry
	nextID  int64
	Err     error
}

func (m *MockWatchlistRepository) List(_ context.Context, username string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	urls := make([]string, 0)
	for _, e := range m.Entries {
		if e.Username == username {
			urls = append(urls, e.URL)
		}
	}
	return urls, nil
}

func (m *MockWatchlistRepository) Add(_ context.Context, username, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, e := range m.Entries {
		if e.Username == username && e.URL == url {
			return nil
		}
	}
	m.nextID++
	m.Entries = append(m.Entries, models.WatchlistEntry{ID: m.nextID, Username: username, URL: url})
	return nil
}

func (m *MockWatchlistRepository) Remove(_ context.Context, username, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	kept := m.Entries[:0]
	for _, e := range m.Entries {
		if e.Username != username || e.URL != url {
			kept = append(kept, e)
		}
	}
	m.Entries = kept
	return nil
}

func (m *MockWatchlistRepository) ListAll(_ context.Context) ([]models.WatchlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.WatchlistEntry, len(m.Entries))
	copy(out, m.Entries)
	return out, nil
}

// MockSummaryRepository keeps product summaries in a map.
type MockSummaryRepository struct {
	mu        sync.Mutex
	Summaries map[string]*models.ProductSummary
	GetErr    error
	UpsertErr error
	Upserts   int
}

func NewMockSummaryRepository() *MockSummaryRepository {
	return &MockSummaryRepository{Summaries: make(map[string]*models.ProductSummary)}
}

func (m *MockSummaryRepository) Get(_ context.Context, url string) (*models.ProductSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	summary, ok := m.Summaries[url]
	if !ok {
		return nil, &storage.NotFoundError{Entity: "product summary", ID: url}
	}
	clone := *summary
	return &clone, nil
}

func (m *MockSummaryRepository) Upsert(_ context.Context, summary *models.ProductSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Upserts++
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	if stored, ok := m.Summaries[summary.URL]; ok && !stored.ComputedAt.Before(summary.ComputedAt) {
		return nil
	}
	clone := *summary
	m.Summaries[summary.URL] = &clone
	return nil
}

// MockNotificationStateRepository keeps hysteresis state per (user, url).
type MockNotificationStateRepository struct {
	mu        sync.Mutex
	States    map[string]float64
	RecordErr error
}

func NewMockNotificationStateRepository() *MockNotificationStateRepository {
	return &MockNotificationStateRepository{States: make(map[string]float64)}
}

func stateKey(username, url string) string {
	return username + "|" + url
}

func (m *MockNotificationStateRepository) LastNotifiedDiscount(_ context.Context, username, url string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.States[stateKey(username, url)], nil
}

func (m *MockNotificationStateRepository) RecordNotified(_ context.Context, username, url string, discountPercent float64, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.States[stateKey(username, url)] = discountPercent
	return nil
}

// MockPriceService serves canned summaries keyed by product URL.
type MockPriceService struct {
	mu           sync.Mutex
	Summaries    map[string]*models.ProductSummary
	Errs         map[string]error
	RefreshCalls []string
}

func NewMockPriceService() *MockPriceService {
	return &MockPriceService{
		Summaries: make(map[string]*models.ProductSummary),
		Errs:      make(map[string]error),
	}
}

func (m *MockPriceService) ComputeSummary(_ []byte, productURL string, _ []string, _ time.Time) (*models.ProductSummary, error) {
	return m.lookup(productURL)
}

func (m *MockPriceService) Refresh(_ context.Context, productURL string, _ []string) (*models.ProductSummary, error) {
	m.mu.Lock()
	m.RefreshCalls = append(m.RefreshCalls, productURL)
	m.mu.Unlock()
	return m.lookup(productURL)
}

func (m *MockPriceService) GetProductSummary(_ context.Context, productURL string, _ []string) (*models.ProductSummary, error) {
	return m.lookup(productURL)
}

func (m *MockPriceService) lookup(productURL string) (*models.ProductSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.Errs[productURL]; ok {
		return nil, err
	}
	summary, ok := m.Summaries[productURL]
	if !ok {
		return nil, fmt.Errorf("no summary for %s", productURL)
	}
	clone := *summary
	return &clone, nil
}
