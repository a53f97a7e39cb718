package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"pricewatch/internal/models"
)

type UserRepositoryInterface interface {
	// GetOrCreate returns the user, creating a default record on first
	// sight of the username.
	GetOrCreate(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type UserRepository struct {
	BaseRepository
}

func NewUserRepository(db *bun.DB) UserRepositoryInterface {
	return &UserRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *UserRepository) GetOrCreate(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.db.NewSelect().Model(user).Where("username = ?", username).Scan(ctx)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleError("get", "user", username, err)
	}

	user = &models.User{
		Username:                  username,
		NotificationFrequencyDays: 1,
		RetailerExclusions:        []string{},
	}
	if _, err := r.db.NewInsert().Model(user).
		On("CONFLICT (username) DO NOTHING").
		Exec(ctx); err != nil {
		return nil, r.HandleError("create", "user", username, err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().Model(user).
		On("CONFLICT (username) DO UPDATE").
		Set("pushover_code = EXCLUDED.pushover_code").
		Set("price_limit = EXCLUDED.price_limit").
		Set("notification_frequency_days = EXCLUDED.notification_frequency_days").
		Set("retailer_exclusions = EXCLUDED.retailer_exclusions").
		Exec(ctx)
	return r.HandleError("update", "user", user.Username, err)
}
