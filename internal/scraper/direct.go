package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"pricewatch/internal/providers"
	"pricewatch/internal/structures"
)

const maxResponseBytes = 4 << 20 // 4 MB

// DirectClient talks to the price API endpoint directly. Only the Referer
// header is needed for the upstream to answer.
type DirectClient struct {
	client  *http.Client
	apiBase string
	logger  providers.Logger
}

func NewDirectClient(conf *structures.Config, logger providers.Logger) *DirectClient {
	return &DirectClient{
		client:  &http.Client{Timeout: conf.Scraper.FetchTimeout},
		apiBase: strings.TrimRight(conf.Scraper.APIBase, "/"),
		logger:  logger,
	}
}

func (c *DirectClient) FetchRawPriceData(ctx context.Context, productURL string) ([]byte, error) {
	slug := ProductSlug(productURL)
	if slug == "" {
		return nil, fmt.Errorf("no product slug in %q", productURL)
	}
	endpoint := c.apiBase + "/" + slug

	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Referer", productURL)

			resp, err := c.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
			}
			body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			return err
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.MaxJitter(500*time.Millisecond),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warnf(providers.TypeApp, "Fetch attempt %d for %s failed: %s", n+1, productURL, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch price data for %s: %w", productURL, err)
	}
	return body, nil
}
