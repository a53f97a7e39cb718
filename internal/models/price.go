package models

import (
	"time"

	"github.com/uptrace/bun"
)

// PriceRecord is one canonical price observation for a retailer.
// Invariants: Price > 0, ObservedAt is UTC.
type PriceRecord struct {
	Retailer   string    `json:"retailer"`
	Price      float64   `json:"price"`
	ObservedAt time.Time `json:"observed_at"`
}

// RetailerAggregate is the per-seller view derived from its retained history:
// the current price (cheapest recent observation) and the average over the
// retention window.
type RetailerAggregate struct {
	Name         string  `json:"name"`
	URL          string  `json:"url"`
	CurrentPrice float64 `json:"price"`
	AveragePrice float64 `json:"avg_price"`
	SampleCount  int     `json:"price_count"`
}

// ProductSummary is the persisted best/average/savings snapshot for one
// tracked URL. It is recomputed wholesale on every refresh; the stored row is
// replaced, never merged.
type ProductSummary struct {
	bun.BaseModel `bun:"table:product_summaries,alias:ps" json:"-"`

	URL            string              `bun:"url,pk" json:"url"`
	ProductName    string              `bun:"product_name" json:"product_name"`
	BestPrice      float64             `bun:"best_price" json:"best_price"`
	BestRetailer   string              `bun:"best_retailer" json:"best_retailer"`
	BestURL        string              `bun:"best_url" json:"best_url"`
	AveragePrice   float64             `bun:"average_price" json:"average_price"`
	MedianPrice    float64             `bun:"median_price" json:"median_price"`
	StdDev         float64             `bun:"std_dev" json:"std_dev"`
	SavingsAmount  float64             `bun:"savings_amount" json:"savings"`
	SavingsPercent float64             `bun:"savings_percent" json:"savings_pct"`
	Retailers      []RetailerAggregate `bun:"retailers,type:jsonb" json:"all_retailers"`
	RetailerCount  int                 `bun:"retailer_count" json:"retailers_analyzed"`
	SampleCount    int                 `bun:"sample_count" json:"total_prices"`
	ImageURL       string              `bun:"image_url,nullzero" json:"image_url,omitempty"`
	ComputedAt     time.Time           `bun:"computed_at" json:"last_updated"`
}
