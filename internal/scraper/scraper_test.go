package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/structures"
	"pricewatch/internal/testutil"
)

func testLogger() *testutil.MockLogger {
	return &testutil.MockLogger{}
}

func TestProductSlug(t *testing.T) {
	assert.Equal(t, "tom-ford-ombre-leather",
		ProductSlug("https://buywisely.com.au/product/tom-ford-ombre-leather"))
	assert.Equal(t, "viva-paper-towel",
		ProductSlug("https://buywisely.com.au/product/viva-paper-towel/"))
	assert.Equal(t, "", ProductSlug("https://buywisely.com.au/about"))
}

func TestDirectClient_FetchesWithReferer(t *testing.T) {
	payload := `{"r": [{"base_price": 1.0, "created_at": "2024-03-01T10:00:00Z"}]}`
	var gotPath, gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotReferer = r.Header.Get("Referer")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := NewDirectClient(testScraperConfig(srv.URL), testLogger())
	body, err := c.FetchRawPriceData(context.Background(), "https://shop/product/some-item")
	require.NoError(t, err)
	assert.Equal(t, payload, string(body))
	assert.Equal(t, "/some-item", gotPath)
	assert.Equal(t, "https://shop/product/some-item", gotReferer)
}

func TestDirectClient_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewDirectClient(testScraperConfig(srv.URL), testLogger())
	body, err := c.FetchRawPriceData(context.Background(), "https://shop/product/some-item")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(body))
	assert.EqualValues(t, 3, calls.Load())
}

func TestDirectClient_NoSlug(t *testing.T) {
	c := NewDirectClient(testScraperConfig("http://localhost"), testLogger())
	_, err := c.FetchRawPriceData(context.Background(), "https://shop/about")
	assert.Error(t, err)
}

func testScraperConfig(apiBase string) *structures.Config {
	return &structures.Config{
		Scraper: structures.ScraperConfig{
			Mode:         "direct",
			APIBase:      apiBase,
			FetchTimeout: 10 * time.Second,
		},
	}
}
