// Package app wires configuration into a ready UserAccountService. It is
// shared by the HTTP server and userctl.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/eaglebank/user-accounts/internal/command"
	"github.com/eaglebank/user-accounts/internal/config"
	"github.com/eaglebank/user-accounts/internal/database"
	"github.com/eaglebank/user-accounts/internal/repository"
	"github.com/eaglebank/user-accounts/internal/service"
	"github.com/eaglebank/user-accounts/shared/events"
	redisClient "github.com/eaglebank/user-accounts/shared/redis"
	"github.com/eaglebank/user-accounts/shared/utils"
)

// App holds the service together with the resources it owns.
type App struct {
	Service *service.UserAccountService
	DB      *sql.DB

	redis *redisClient.Client
}

// New opens the database, applies migrations and connects the event
// publisher. Close releases everything New acquired.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	a := &App{DB: db}

	var publisher command.EventPublisher = events.NopPublisher{}
	if cfg.Redis.Enabled() {
		a.redis, err = redisClient.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		publisher = events.NewPublisher(a.redis.Client)
		slog.Info("publishing user events", "stream", events.UserEventsStream, "addr", cfg.Redis.Addr)
	} else {
		slog.Info("REDIS_ADDR not set, user events disabled")
	}

	// --- CQRS wiring ---
	a.Service = service.NewUserAccountService(
		repository.NewUserWriteRepository(db),
		repository.NewUserReadRepository(db),
		utils.NewBcryptHasher(cfg.BcryptCost),
		publisher,
	)
	return a, nil
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}
