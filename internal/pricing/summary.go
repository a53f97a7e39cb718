package pricing

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"pricewatch/internal/models"
)

// Summarize combines retailer aggregates into the product-level snapshot.
// It returns nil when there are no aggregates or pooled samples (every
// retailer was excluded or stale), which callers surface as "price unknown",
// not as an error.
//
// The overall average pools every retained sample across retailers before
// averaging; it is not a mean of per-retailer means.
func Summarize(aggregates []models.RetailerAggregate, pooled []float64, productURL string, now time.Time) *models.ProductSummary {
	if len(aggregates) == 0 || len(pooled) == 0 {
		return nil
	}

	sorted := make([]models.RetailerAggregate, len(aggregates))
	copy(sorted, aggregates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CurrentPrice < sorted[j].CurrentPrice
	})
	best := sorted[0]

	mean, _ := stats.Mean(pooled)
	median, _ := stats.Median(pooled)
	var stdDev float64
	if len(pooled) > 1 {
		stdDev, _ = stats.StandardDeviationSample(pooled)
	}

	average := round(mean, 2)
	savings := round(average-best.CurrentPrice, 2)
	var savingsPct float64
	if average > 0 {
		savingsPct = round(savings/average*100, 1)
	}

	return &models.ProductSummary{
		URL:            productURL,
		ProductName:    ProductNameFromURL(productURL),
		BestPrice:      best.CurrentPrice,
		BestRetailer:   best.Name,
		BestURL:        best.URL,
		AveragePrice:   average,
		MedianPrice:    round(median, 2),
		StdDev:         round(stdDev, 2),
		SavingsAmount:  savings,
		SavingsPercent: savingsPct,
		Retailers:      sorted,
		RetailerCount:  len(sorted),
		SampleCount:    len(pooled),
		ComputedAt:     now.UTC(),
	}
}

// ProductNameFromURL derives a display name from the trailing URL slug,
// e.g. ".../product/tom-ford-ombre-leather" -> "Tom Ford Ombre Leather".
func ProductNameFromURL(productURL string) string {
	slug := strings.TrimRight(productURL, "/")
	if i := strings.LastIndexByte(slug, '/'); i >= 0 {
		slug = slug[i+1:]
	}
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = titleWord(w)
		}
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
