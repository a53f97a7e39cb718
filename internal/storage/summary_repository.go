package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"pricewatch/internal/models"
)

type SummaryRepositoryInterface interface {
	Get(ctx context.Context, url string) (*models.ProductSummary, error)
	// Upsert replaces the stored snapshot unless the stored one is newer:
	// overlapping scheduled and on-demand refreshes resolve to the latest
	// computed_at regardless of completion order.
	Upsert(ctx context.Context, summary *models.ProductSummary) error
}

type SummaryRepository struct {
	BaseRepository
}

func NewSummaryRepository(db *bun.DB) SummaryRepositoryInterface {
	return &SummaryRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *SummaryRepository) Get(ctx context.Context, url string) (*models.ProductSummary, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	summary := new(models.ProductSummary)
	err := r.db.NewSelect().Model(summary).Where("url = ?", url).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "product summary", ID: url}
	}
	if err != nil {
		return nil, r.HandleError("get", "product summary", url, err)
	}
	return summary, nil
}

func (r *SummaryRepository) Upsert(ctx context.Context, summary *models.ProductSummary) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().Model(summary).
		On("CONFLICT (url) DO UPDATE").
		Set("product_name = EXCLUDED.product_name").
		Set("best_price = EXCLUDED.best_price").
		Set("best_retailer = EXCLUDED.best_retailer").
		Set("best_url = EXCLUDED.best_url").
		Set("average_price = EXCLUDED.average_price").
		Set("median_price = EXCLUDED.median_price").
		Set("std_dev = EXCLUDED.std_dev").
		Set("savings_amount = EXCLUDED.savings_amount").
		Set("savings_percent = EXCLUDED.savings_percent").
		Set("retailers = EXCLUDED.retailers").
		Set("retailer_count = EXCLUDED.retailer_count").
		Set("sample_count = EXCLUDED.sample_count").
		Set("image_url = EXCLUDED.image_url").
		Set("computed_at = EXCLUDED.computed_at").
		Where("ps.computed_at < EXCLUDED.computed_at").
		Exec(ctx)
	return r.HandleError("upsert", "product summary", summary.URL, err)
}
