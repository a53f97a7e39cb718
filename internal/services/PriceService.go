package services

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"pricewatch/internal/models"
	"pricewatch/internal/pricing"
	"pricewatch/internal/providers"
	"pricewatch/internal/scraper"
	"pricewatch/internal/storage"
	"pricewatch/internal/structures"
)

// ErrNoUsableData means the upstream payload held no price points that
// survived normalization and retention filtering.
var ErrNoUsableData = errors.New("no usable price data for product")

type PriceServiceInterface interface {
	// ComputeSummary runs the pure pipeline on a raw payload. Returns
	// ErrNoUsableData when nothing survives filtering.
	ComputeSummary(raw []byte, productURL string, excluded []string, now time.Time) (*models.ProductSummary, error)
	// Refresh fetches, computes and persists a fresh summary for the
	// product. A persistence failure is logged but does not discard the
	// computed summary.
	Refresh(ctx context.Context, productURL string, excluded []string) (*models.ProductSummary, error)
	// GetProductSummary serves from cache, then the store, then a live
	// refresh as a last resort.
	GetProductSummary(ctx context.Context, productURL string, excluded []string) (*models.ProductSummary, error)
}

type PriceService struct {
	conf      *structures.Config
	logger    providers.Logger
	cache     providers.CacheProviderInterface
	metrics   providers.MetricsProviderInterface
	scraper   scraper.Scraper
	summaries storage.SummaryRepositoryInterface
	windows   pricing.Windows

	// refreshMu stripes per-URL refreshes so concurrent requests for the
	// same product do not hammer the upstream twice.
	refreshMu [16]sync.Mutex
}

func NewPriceService(
	conf *structures.Config,
	logger providers.Logger,
	cache providers.CacheProviderInterface,
	metrics providers.MetricsProviderInterface,
	sc scraper.Scraper,
	summaries storage.SummaryRepositoryInterface,
) PriceServiceInterface {
	w := pricing.DefaultWindows()
	if conf.Refresh.RecencyDays > 0 {
		w.Recency = time.Duration(conf.Refresh.RecencyDays) * 24 * time.Hour
	}
	if conf.Refresh.RetentionDays > 0 {
		w.Retention = time.Duration(conf.Refresh.RetentionDays) * 24 * time.Hour
	}
	return &PriceService{
		conf:      conf,
		logger:    logger,
		cache:     cache,
		metrics:   metrics,
		scraper:   sc,
		summaries: summaries,
		windows:   w,
	}
}

func (ps *PriceService) ComputeSummary(raw []byte, productURL string, excluded []string, now time.Time) (*models.ProductSummary, error) {
	records := pricing.Normalize(raw)
	aggregates, pooled := pricing.Aggregate(records, excluded, now, ps.windows)
	summary := pricing.Summarize(aggregates, pooled, productURL, now)
	if summary == nil {
		return nil, ErrNoUsableData
	}
	return summary, nil
}

func (ps *PriceService) Refresh(ctx context.Context, productURL string, excluded []string) (*models.ProductSummary, error) {
	lock := ps.urlLock(productURL)
	lock.Lock()
	defer lock.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, ps.conf.Scraper.FetchTimeout)
	defer cancel()

	raw, err := ps.scraper.FetchRawPriceData(fetchCtx, productURL)
	if err != nil {
		ps.metrics.IncFetchFailures()
		return nil, err
	}

	summary, err := ps.ComputeSummary(raw, productURL, excluded, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	// Only unfiltered summaries are authoritative enough to persist and
	// cache; per-user exclusions produce user-specific views.
	if len(excluded) == 0 {
		if err := ps.summaries.Upsert(ctx, summary); err != nil {
			ps.logger.Errorf(providers.TypeApp, "Failed to persist summary for %s: %s", productURL, err)
		}
		ps.cacheSummary(productURL, summary)
	}
	ps.metrics.IncProductsRefreshed()
	return summary, nil
}

func (ps *PriceService) GetProductSummary(ctx context.Context, productURL string, excluded []string) (*models.ProductSummary, error) {
	if len(excluded) == 0 {
		if cached, ok := ps.cache.Get(SummaryCacheKey(productURL)); ok {
			summary := new(models.ProductSummary)
			if err := json.Unmarshal(cached, summary); err == nil {
				return summary, nil
			}
			ps.cache.Del(SummaryCacheKey(productURL))
		}

		summary, err := ps.summaries.Get(ctx, productURL)
		if err == nil {
			ps.cacheSummary(productURL, summary)
			return summary, nil
		}
		if !storage.IsNotFound(err) {
			ps.logger.Warnf(providers.TypeApp, "Summary lookup failed for %s: %s", productURL, err)
		}
		return ps.Refresh(ctx, productURL, nil)
	}

	// Exclusions change the aggregation itself, a stored snapshot cannot
	// serve them.
	return ps.Refresh(ctx, productURL, excluded)
}

func (ps *PriceService) cacheSummary(productURL string, summary *models.ProductSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	ps.cache.Set(SummaryCacheKey(productURL), data, ps.conf.Cache.ProductTTL)
}

func (ps *PriceService) urlLock(productURL string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(productURL))
	return &ps.refreshMu[h.Sum32()%uint32(len(ps.refreshMu))]
}

// SummaryCacheKey is shared with snapshot restore, which warms the cache
// with the same entries the service writes.
func SummaryCacheKey(productURL string) string {
	return "summary:" + productURL
}
