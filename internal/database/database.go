// Package database opens the user store for one of the supported drivers
// and applies schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/eaglebank/user-accounts/internal/config"
	"github.com/eaglebank/user-accounts/internal/database/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects using cfg.Driver, applies pool settings and pings the server.
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	slog.Info("Connecting to the database...", "driver", cfg.Driver)

	db, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		if err := configureSQLite(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("Connected to the database.", "driver", cfg.Driver)
	return db, nil
}

// Migrate applies pending schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func configureSQLite(ctx context.Context, db *sql.DB) error {
	// SQLite allows a single writer; one connection also keeps ":memory:"
	// databases alive across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	return nil
}
