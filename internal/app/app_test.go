package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/eaglebank/user-accounts/internal/config"
	"github.com/eaglebank/user-accounts/shared/cqrs"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DB: config.DBConfig{
			Driver:      config.DriverSQLite,
			URL:         filepath.Join(t.TempDir(), "app.db"),
			PingTimeout: time.Second,
		},
		BcryptCost: 4,
	}
}

func TestNew_SQLiteWithoutRedis(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, sqliteConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	res := a.Service.CreateUser(ctx, cqrs.CreateUserCommand{Name: "Alice", Email: "a@x.com", Password: "secret1"})
	if !res.OK() {
		t.Fatalf("CreateUser() = %+v", res)
	}
	views, err := a.Service.ListUsers(ctx)
	if err != nil || len(views) != 1 {
		t.Fatalf("ListUsers() = %v, %v", views, err)
	}
}

func TestNew_UnreachableRedis(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Redis.Addr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := New(ctx, cfg); err == nil {
		t.Fatal("New() error = nil, want redis connection error")
	}
}
