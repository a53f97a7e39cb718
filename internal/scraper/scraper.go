// Package scraper fetches raw price-history payloads from the upstream
// price-comparison site, either straight from its JSON API or through a real
// browser when the API is fenced off.
package scraper

import (
	"context"
	"strings"

	"pricewatch/internal/providers"
	"pricewatch/internal/structures"
)

// Scraper fetches the raw price-history payload for a product page. The
// payload shape is deliberately opaque here; normalization happens
// downstream.
type Scraper interface {
	FetchRawPriceData(ctx context.Context, productURL string) ([]byte, error)
}

func NewScraperProvider(conf *structures.Config, logger providers.Logger) Scraper {
	if conf.Scraper.Mode == "browser" {
		return NewBrowserScraper(conf, logger)
	}
	return NewDirectClient(conf, logger)
}

// ProductSlug extracts the product identifier from a product page URL,
// e.g. ".../product/viva-paper-towel/" -> "viva-paper-towel".
func ProductSlug(productURL string) string {
	const marker = "/product/"
	i := strings.LastIndex(productURL, marker)
	if i < 0 {
		return ""
	}
	return strings.Trim(productURL[i+len(marker):], "/")
}
