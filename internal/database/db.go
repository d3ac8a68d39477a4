package database

import (
	"directory-bknd/internal/config"
	"directory-bknd/internal/models"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// New connects to Postgres and returns a Bun DB handle.
func New(dsn string, cfg *config.Config) (*bun.DB, error) {
	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(30*time.Second),
		pgdriver.WithDialTimeout(5*time.Second),
		pgdriver.WithReadTimeout(15*time.Second),
		pgdriver.WithWriteTimeout(10*time.Second),
	)

	sqldb := sql.OpenDB(connector)
	db := bun.NewDB(sqldb, pgdialect.New())

	// Listing pages and websocket sessions share this pool
	sqldb.SetMaxOpenConns(25)
	sqldb.SetMaxIdleConns(10)
	sqldb.SetConnMaxLifetime(5 * time.Minute)
	sqldb.SetConnMaxIdleTime(10 * time.Minute)

	// Optional query logging
	if cfg.BunDebug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Directory reads are short; anything slower is a missing index
	_, err := db.ExecContext(ctx, `
		SET search_path TO directory, public;
		SET statement_timeout = '15s';
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to set database configuration: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the directory tables when they are missing. Locations are
// maintained by the external admin system; the table is created here so local
// environments and fresh databases have something to read.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*models.Location)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create locations table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*models.Favorite)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create favorites table: %w", err)
	}

	// one favorite per (user, location)
	if _, err := db.NewCreateIndex().
		Model((*models.Favorite)(nil)).
		Index("favorites_user_location_uidx").
		Unique().
		Column("user_id", "location_id").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create favorites index: %w", err)
	}

	return nil
}
