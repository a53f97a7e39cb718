package storage

import (
	"context"

	"github.com/uptrace/bun"

	"pricewatch/internal/models"
)

type WatchlistRepositoryInterface interface {
	List(ctx context.Context, username string) ([]string, error)
	Add(ctx context.Context, username, url string) error
	Remove(ctx context.Context, username, url string) error
	// ListAll returns every (username, url) pair across all watchlists.
	ListAll(ctx context.Context) ([]models.WatchlistEntry, error)
}

type WatchlistRepository struct {
	BaseRepository
}

func NewWatchlistRepository(db *bun.DB) WatchlistRepositoryInterface {
	return &WatchlistRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *WatchlistRepository) List(ctx context.Context, username string) ([]string, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	urls := make([]string, 0)
	err := r.db.NewSelect().
		Model((*models.WatchlistEntry)(nil)).
		Column("url").
		Where("username = ?", username).
		Order("id ASC").
		Scan(ctx, &urls)
	if err != nil {
		return nil, r.HandleError("list", "watchlist", username, err)
	}
	return urls, nil
}

func (r *WatchlistRepository) Add(ctx context.Context, username, url string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	entry := &models.WatchlistEntry{Username: username, URL: url}
	_, err := r.db.NewInsert().Model(entry).
		On("CONFLICT (username, url) DO NOTHING").
		Exec(ctx)
	return r.HandleError("add", "watchlist", username, err)
}

func (r *WatchlistRepository) Remove(ctx context.Context, username, url string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.WatchlistEntry)(nil)).
		Where("username = ?", username).
		Where("url = ?", url).
		Exec(ctx)
	return r.HandleError("remove", "watchlist", username, err)
}

func (r *WatchlistRepository) ListAll(ctx context.Context) ([]models.WatchlistEntry, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var entries []models.WatchlistEntry
	err := r.db.NewSelect().Model(&entries).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, r.HandleError("listAll", "watchlist", "*", err)
	}
	return entries, nil
}
