package pricing

import (
	"sort"
	"strings"
	"time"

	"pricewatch/internal/models"
)

// Windows are the two lookbacks of the aggregation: Recency bounds what
// counts as a "current" price, Retention bounds the historical sample.
type Windows struct {
	Recency   time.Duration
	Retention time.Duration
}

func DefaultWindows() Windows {
	return Windows{
		Recency:   7 * 24 * time.Hour,
		Retention: 30 * 24 * time.Hour,
	}
}

// Aggregate groups normalized records per retailer and computes each
// retailer's current and average price. Retailers matching the exclusion set
// are dropped entirely, as are records older than the retention window.
// The pooled slice holds every retained price sample across all retailers,
// sorted ascending, for product-level statistics.
//
// The current price is the minimum observed within the recency window; a
// retailer with history but no recent observation falls back to its most
// recent retained record (latest timestamp wins, lower price breaks ties).
func Aggregate(records map[string][]models.PriceRecord, excluded []string, now time.Time, w Windows) (aggregates []models.RetailerAggregate, pooled []float64) {
	retentionCutoff := now.Add(-w.Retention)
	recencyCutoff := now.Add(-w.Recency)

	for key, recs := range records {
		if isExcluded(key, excluded) {
			continue
		}

		var (
			retained  int
			sum       float64
			current   float64
			hasRecent bool
			latest    models.PriceRecord
		)
		for _, r := range recs {
			if r.Price <= 0 || r.ObservedAt.Before(retentionCutoff) {
				continue
			}
			retained++
			sum += r.Price
			pooled = append(pooled, r.Price)

			if !r.ObservedAt.Before(recencyCutoff) {
				if !hasRecent || r.Price < current {
					current = r.Price
					hasRecent = true
				}
			}
			if retained == 1 || r.ObservedAt.After(latest.ObservedAt) ||
				(r.ObservedAt.Equal(latest.ObservedAt) && r.Price < latest.Price) {
				latest = r
			}
		}
		if retained == 0 {
			continue
		}
		if !hasRecent {
			current = latest.Price
		}

		aggregates = append(aggregates, models.RetailerAggregate{
			Name:         RetailerDisplayName(key),
			URL:          key,
			CurrentPrice: current,
			AveragePrice: sum / float64(retained),
			SampleCount:  retained,
		})
	}

	// Map iteration order is random; fix the order so identical inputs
	// always produce identical output.
	sort.Slice(aggregates, func(i, j int) bool { return aggregates[i].URL < aggregates[j].URL })
	sort.Float64s(pooled)
	return aggregates, pooled
}

func isExcluded(retailerURL string, excluded []string) bool {
	lower := strings.ToLower(retailerURL)
	for _, ex := range excluded {
		ex = strings.ToLower(strings.TrimSpace(ex))
		if ex != "" && strings.Contains(lower, ex) {
			return true
		}
	}
	return false
}
