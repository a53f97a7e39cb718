package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"pricewatch/internal/models"
	"pricewatch/internal/providers"
	"pricewatch/internal/structures"
)

const connectTimeout = 10 * time.Second

// NewDatabaseProvider opens the Postgres connection and makes sure the
// schema exists.
func NewDatabaseProvider(conf *structures.Config, logger providers.Logger) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(conf.Database.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}
	if err := createTables(ctx, db); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	logger.Infof(providers.TypeApp, "Database connected")
	return db, nil
}

func createTables(ctx context.Context, db *bun.DB) error {
	tables := []any{
		(*models.User)(nil),
		(*models.WatchlistEntry)(nil),
		(*models.ProductSummary)(nil),
		(*models.NotificationState)(nil),
	}
	for _, table := range tables {
		if _, err := db.NewCreateTable().Model(table).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	// Lookups during refresh cycles are by (username, url).
	if _, err := db.NewCreateIndex().
		Model((*models.NotificationState)(nil)).
		Index("idx_notification_states_user_url").
		Column("username", "url").
		Unique().
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}
	if _, err := db.NewCreateIndex().
		Model((*models.WatchlistEntry)(nil)).
		Index("idx_watchlists_user_url").
		Column("username", "url").
		Unique().
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}
	return nil
}
