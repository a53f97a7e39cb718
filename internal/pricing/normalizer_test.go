package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_RetailerMap(t *testing.T) {
	raw := []byte(`{
		"https://www.amazon.com.au/dp/1": [
			{"base_price": 35.5, "created_at": "2024-03-01T10:00:00.123456Z"},
			{"base_price": 36.0, "created_at": "2024-03-02T10:00:00Z"}
		],
		"https://www.ebay.com.au/itm/2": [
			{"base_price": 40.0, "created_at": "2024-03-01T12:00:00Z"}
		]
	}`)

	got := Normalize(raw)
	require.Len(t, got, 2)
	require.Len(t, got["https://www.amazon.com.au/dp/1"], 2)
	require.Len(t, got["https://www.ebay.com.au/itm/2"], 1)

	rec := got["https://www.amazon.com.au/dp/1"][0]
	assert.Equal(t, 35.5, rec.Price)
	assert.Equal(t, time.UTC, rec.ObservedAt.Location())
	assert.Equal(t, 2024, rec.ObservedAt.Year())
}

func TestNormalize_ListOfRetailerObjects(t *testing.T) {
	raw := []byte(`[
		{"url": "https://www.coles.com.au/p/3", "prices": [
			{"base_price": 12.0, "created_at": "2024-03-01T10:00:00Z"},
			{"base_price": 11.5, "created_at": "2024-03-02T10:00:00Z"}
		]},
		{"retailer": "kmart.com.au", "price_history": [
			{"price": 13.0, "timestamp": "2024-03-01T09:00:00Z"}
		]},
		{"price": 9.99, "created_at": "2024-03-01T08:00:00Z"}
	]`)

	got := Normalize(raw)
	require.Len(t, got, 3)
	assert.Len(t, got["https://www.coles.com.au/p/3"], 2)
	assert.Len(t, got["kmart.com.au"], 1)

	// The inline object without a retailer key lands in the unknown bucket.
	require.Len(t, got[UnknownRetailer], 1)
	assert.Equal(t, 9.99, got[UnknownRetailer][0].Price)
}

func TestNormalize_SingleInlineObject(t *testing.T) {
	raw := []byte(`{"url": "https://www.bigw.com.au/p/4", "base_price": 25.0, "created_at": "2024-03-01T10:00:00Z"}`)

	got := Normalize(raw)
	require.Len(t, got, 1)
	require.Len(t, got["https://www.bigw.com.au/p/4"], 1)
	assert.Equal(t, 25.0, got["https://www.bigw.com.au/p/4"][0].Price)
}

func TestNormalize_DropsInvalidEntries(t *testing.T) {
	raw := []byte(`{
		"https://www.amazon.com.au/dp/1": [
			{"base_price": 35.5, "created_at": "2024-03-01T10:00:00Z"},
			{"base_price": 0, "created_at": "2024-03-01T10:00:00Z"},
			{"base_price": -2, "created_at": "2024-03-01T10:00:00Z"},
			{"base_price": 30.0, "created_at": "not-a-timestamp"},
			{"base_price": 31.0},
			{"created_at": "2024-03-01T10:00:00Z"}
		]
	}`)

	got := Normalize(raw)
	require.Len(t, got["https://www.amazon.com.au/dp/1"], 1)
	assert.Equal(t, 35.5, got["https://www.amazon.com.au/dp/1"][0].Price)
}

func TestNormalize_UnrecognizedShapes(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.Empty(t, Normalize([]byte(``)))
	assert.Empty(t, Normalize([]byte(`"just a string"`)))
	assert.Empty(t, Normalize([]byte(`42`)))
	assert.Empty(t, Normalize([]byte(`{"note": "no prices here"}`)))
	assert.Empty(t, Normalize([]byte(`[1, 2, 3]`)))
	assert.Empty(t, Normalize([]byte(`{invalid json`)))
}

func TestNormalize_MixedMapKeepsListValues(t *testing.T) {
	raw := []byte(`{
		"https://www.target.com.au/p/5": [
			{"base_price": 20.0, "created_at": "2024-03-01T10:00:00Z"}
		],
		"meta": "ignored"
	}`)

	got := Normalize(raw)
	require.Len(t, got, 1)
	assert.Len(t, got["https://www.target.com.au/p/5"], 1)
}

func TestNormalize_BothTimestampFormats(t *testing.T) {
	raw := []byte(`{
		"r": [
			{"base_price": 1.5, "created_at": "2024-03-01T10:00:00.999999Z"},
			{"base_price": 2.5, "created_at": "2024-03-01T10:00:01Z"}
		]
	}`)

	got := Normalize(raw)
	require.Len(t, got["r"], 2)
	assert.Equal(t, 999999000, got["r"][0].ObservedAt.Nanosecond())
}
