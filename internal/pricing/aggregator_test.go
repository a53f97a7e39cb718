package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/models"
)

var aggNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func record(price float64, age time.Duration) models.PriceRecord {
	return models.PriceRecord{Price: price, ObservedAt: aggNow.Add(-age)}
}

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

func TestAggregate_RecentMinAndRetainedAverage(t *testing.T) {
	records := map[string][]models.PriceRecord{
		"https://www.amazon.com.au/dp/1": {
			record(40, days(8)), // stale for recency, retained for average
			record(35, days(3)),
			record(38, days(1)),
		},
	}

	aggs, pooled := Aggregate(records, nil, aggNow, DefaultWindows())
	require.Len(t, aggs, 1)

	a := aggs[0]
	assert.Equal(t, "Amazon AU", a.Name)
	assert.Equal(t, 35.0, a.CurrentPrice)
	assert.InDelta(t, (40.0+35.0+38.0)/3, a.AveragePrice, 1e-9)
	assert.Equal(t, 3, a.SampleCount)
	assert.Equal(t, []float64{35, 38, 40}, pooled)
}

func TestAggregate_FallbackToMostRecentRetained(t *testing.T) {
	records := map[string][]models.PriceRecord{
		"https://www.coles.com.au/p/2": {
			record(50, days(20)),
			record(45, days(10)),
		},
	}

	aggs, _ := Aggregate(records, nil, aggNow, DefaultWindows())
	require.Len(t, aggs, 1)
	assert.Equal(t, 45.0, aggs[0].CurrentPrice)
}

func TestAggregate_FallbackTieBreaksOnLowerPrice(t *testing.T) {
	ts := aggNow.Add(-days(10))
	records := map[string][]models.PriceRecord{
		"r": {
			{Price: 50, ObservedAt: ts},
			{Price: 45, ObservedAt: ts},
			{Price: 48, ObservedAt: ts},
		},
	}

	aggs, _ := Aggregate(records, nil, aggNow, DefaultWindows())
	require.Len(t, aggs, 1)
	assert.Equal(t, 45.0, aggs[0].CurrentPrice)
}

func TestAggregate_DropsStaleRetailer(t *testing.T) {
	records := map[string][]models.PriceRecord{
		"https://www.kmart.com.au/p/3": {
			record(30, days(31)),
			record(29, days(45)),
		},
	}

	aggs, pooled := Aggregate(records, nil, aggNow, DefaultWindows())
	assert.Empty(t, aggs)
	assert.Empty(t, pooled)
}

func TestAggregate_ExclusionIsCaseInsensitiveSubstring(t *testing.T) {
	records := map[string][]models.PriceRecord{
		"https://www.eBay.com.au/itm/4":  {record(10, days(1))},
		"https://www.amazon.com.au/dp/5": {record(12, days(1))},
	}

	aggs, pooled := Aggregate(records, []string{"EBAY"}, aggNow, DefaultWindows())
	require.Len(t, aggs, 1)
	assert.Equal(t, "https://www.amazon.com.au/dp/5", aggs[0].URL)
	assert.Equal(t, []float64{12}, pooled)
}

func TestAggregate_ExcludedRetailerProducesNoAggregate(t *testing.T) {
	records := map[string][]models.PriceRecord{
		"https://www.ebay.com.au/itm/6": {
			record(10, days(1)), record(11, days(2)), record(9, days(3)),
		},
	}

	aggs, _ := Aggregate(records, []string{"ebay.com.au"}, aggNow, DefaultWindows())
	assert.Empty(t, aggs)
}

func TestAggregate_OutputIsDeterministic(t *testing.T) {
	records := map[string][]models.PriceRecord{
		"b": {record(2, days(1))},
		"a": {record(1, days(1))},
		"c": {record(3, days(1))},
	}

	first, firstPooled := Aggregate(records, nil, aggNow, DefaultWindows())
	second, secondPooled := Aggregate(records, nil, aggNow, DefaultWindows())
	assert.Equal(t, first, second)
	assert.Equal(t, firstPooled, secondPooled)
	assert.Equal(t, "a", first[0].URL)
	assert.Equal(t, "c", first[2].URL)
}

func TestRetailerDisplayName(t *testing.T) {
	assert.Equal(t, "Chemist Warehouse", RetailerDisplayName("https://www.chemistwarehouse.com.au/buy/1"))
	assert.Equal(t, "eBay", RetailerDisplayName("https://www.EBAY.com.au/itm/2"))
	assert.Equal(t, "Somestore", RetailerDisplayName("https://www.somestore.com.au/p/3"))
	assert.Equal(t, "Shop", RetailerDisplayName("shop.example.com/item"))
}
