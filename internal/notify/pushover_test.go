package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/models"
	"pricewatch/internal/structures"
	"pricewatch/internal/testutil"
)

func testPushoverConfig(token, apiURL string) *structures.Config {
	return &structures.Config{
		Pushover: structures.PushoverConfig{Token: token, APIURL: apiURL},
	}
}

func TestNewNotifierProvider_NoToken(t *testing.T) {
	n := NewNotifierProvider(testPushoverConfig("", ""), &testutil.MockLogger{})
	_, ok := n.(*noopNotifier)
	assert.True(t, ok)
	assert.NoError(t, n.Send(context.Background(), "user-key", "hello"))
}

func TestPushoverClient_SendsForm(t *testing.T) {
	var gotBody, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotBody = r.PostForm.Encode()
		gotContentType = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	n := NewNotifierProvider(testPushoverConfig("app-token", srv.URL), &testutil.MockLogger{})
	err := n.Send(context.Background(), "user-key", "deal message")
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Contains(t, gotBody, "token=app-token")
	assert.Contains(t, gotBody, "user=user-key")
	assert.Contains(t, gotBody, "message=deal+message")
}

func TestPushoverClient_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	n := NewNotifierProvider(testPushoverConfig("app-token", srv.URL), &testutil.MockLogger{})
	err := n.Send(context.Background(), "user-key", "deal message")
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestPushoverClient_BadRequestIsFinal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewNotifierProvider(testPushoverConfig("app-token", srv.URL), &testutil.MockLogger{})
	err := n.Send(context.Background(), "bad-key", "deal message")
	assert.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestBuildDealMessage(t *testing.T) {
	summary := &models.ProductSummary{
		ProductName:    "Tom Ford Ombre Leather",
		BestPrice:      180.50,
		BestRetailer:   "Chemist Warehouse",
		AveragePrice:   220.00,
		SavingsAmount:  39.50,
		SavingsPercent: 18.0,
	}
	msg := BuildDealMessage(summary, 18.0, 12.5)
	assert.True(t, strings.HasPrefix(msg, "🎉 Better Deal Alert!"))
	assert.Contains(t, msg, "Tom Ford Ombre Leather")
	assert.Contains(t, msg, "Now: $180.50 (was $220.00)")
	assert.Contains(t, msg, "Discount: 18.0% off")
	assert.Contains(t, msg, "Save: $39.50")
	assert.Contains(t, msg, "Best at: Chemist Warehouse")
	assert.Contains(t, msg, "Previous best discount: 12.5%")
}
