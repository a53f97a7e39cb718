package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"pricewatch/internal/models"
)

type NotificationStateRepositoryInterface interface {
	// LastNotifiedDiscount returns the hysteresis baseline for the pair,
	// or 0 when the user has never been notified about this product.
	LastNotifiedDiscount(ctx context.Context, username, url string) (float64, error)
	// RecordNotified stores the discount that was just dispatched.
	RecordNotified(ctx context.Context, username, url string, discountPercent float64, at time.Time) error
}

type NotificationStateRepository struct {
	BaseRepository
}

func NewNotificationStateRepository(db *bun.DB) NotificationStateRepositoryInterface {
	return &NotificationStateRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *NotificationStateRepository) LastNotifiedDiscount(ctx context.Context, username, url string) (float64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	state := new(models.NotificationState)
	err := r.db.NewSelect().Model(state).
		Where("username = ?", username).
		Where("url = ?", url).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, r.HandleError("get", "notification state", username, err)
	}
	return state.LastNotifiedDiscountPercent, nil
}

func (r *NotificationStateRepository) RecordNotified(ctx context.Context, username, url string, discountPercent float64, at time.Time) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	state := &models.NotificationState{
		Username:                    username,
		URL:                         url,
		LastNotifiedDiscountPercent: discountPercent,
		NotifiedAt:                  at,
	}
	_, err := r.db.NewInsert().Model(state).
		On("CONFLICT (username, url) DO UPDATE").
		Set("last_notified_discount_percent = EXCLUDED.last_notified_discount_percent").
		Set("notified_at = EXCLUDED.notified_at").
		Exec(ctx)
	return r.HandleError("record", "notification state", username, err)
}
