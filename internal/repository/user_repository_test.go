package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/eaglebank/user-accounts/internal/config"
	"github.com/eaglebank/user-accounts/internal/database"
	"github.com/eaglebank/user-accounts/internal/repository"
	"github.com/eaglebank/user-accounts/shared/models"
)

type testRepos struct {
	write *repository.UserWriteRepository
	read  *repository.UserReadRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, config.DBConfig{
		Driver:      config.DriverSQLite,
		URL:         filepath.Join(t.TempDir(), "test.db"),
		PingTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return testRepos{
		write: repository.NewUserWriteRepository(db),
		read:  repository.NewUserReadRepository(db),
	}
}

func seedUser(t *testing.T, repos testRepos, id, name, email string, createdAt time.Time) *models.User {
	t.Helper()
	user := &models.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: "hash-" + id,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err := repos.write.Create(context.Background(), user); err != nil {
		t.Fatalf("Create %s: %v", id, err)
	}
	return user
}

var baseTime = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func TestUserWriteRepository_CreateAndGet(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedUser(t, repos, "usr-001", "Alice", "a@x.com", baseTime)

	got, err := repos.write.GetByID(ctx, "usr-001")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Alice" || got.Email != "a@x.com" || got.PasswordHash != "hash-usr-001" {
		t.Errorf("GetByID() = %+v", got)
	}
	if !got.CreatedAt.Equal(baseTime) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, baseTime)
	}
}

func TestUserWriteRepository_Create_DuplicateEmail(t *testing.T) {
	repos := newTestRepos(t)
	seedUser(t, repos, "usr-001", "Alice", "dup@x.com", baseTime)

	err := repos.write.Create(context.Background(), &models.User{
		ID: "usr-002", Name: "Bob", Email: "dup@x.com", PasswordHash: "h",
		CreatedAt: baseTime, UpdatedAt: baseTime,
	})
	if !errors.Is(err, repository.ErrEmailExists) {
		t.Fatalf("Create() error = %v, want ErrEmailExists", err)
	}
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	if _, err := repos.write.GetByID(ctx, "usr-missing"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("write.GetByID() error = %v, want ErrUserNotFound", err)
	}
	if _, err := repos.read.GetByID(ctx, "usr-missing"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("read.GetByID() error = %v, want ErrUserNotFound", err)
	}
}

func TestUserWriteRepository_Update(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedUser(t, repos, "usr-001", "Alice", "a@x.com", baseTime)
	seedUser(t, repos, "usr-002", "Bob", "b@x.com", baseTime)

	later := baseTime.Add(time.Hour)
	err := repos.write.Update(ctx, &models.User{ID: "usr-001", Name: "Alice Updated", Email: "alice@x.com", UpdatedAt: later})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repos.read.GetByID(ctx, "usr-001")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Alice Updated" || got.Email != "alice@x.com" {
		t.Errorf("after Update got %+v", got)
	}
	if got.PasswordHash != "hash-usr-001" {
		t.Errorf("Update changed password hash to %q", got.PasswordHash)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, later)
	}

	err = repos.write.Update(ctx, &models.User{ID: "usr-001", Name: "Alice", Email: "b@x.com", UpdatedAt: later})
	if !errors.Is(err, repository.ErrEmailExists) {
		t.Errorf("Update() to taken email error = %v, want ErrEmailExists", err)
	}

	err = repos.write.Update(ctx, &models.User{ID: "usr-missing", Name: "X", Email: "x@x.com", UpdatedAt: later})
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("Update() missing user error = %v, want ErrUserNotFound", err)
	}
}

func TestUserWriteRepository_Delete(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedUser(t, repos, "usr-001", "Alice", "a@x.com", baseTime)

	if err := repos.write.Delete(ctx, "usr-001"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repos.read.GetByID(ctx, "usr-001"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrUserNotFound", err)
	}
	if err := repos.write.Delete(ctx, "usr-001"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("second Delete() error = %v, want ErrUserNotFound", err)
	}

	// The email is free again once the record is gone.
	seedUser(t, repos, "usr-002", "Alice Again", "a@x.com", baseTime)
}

func TestUserWriteRepository_ChangePassword(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedUser(t, repos, "usr-001", "Alice", "a@x.com", baseTime)

	if err := repos.write.ChangePassword(ctx, "usr-001", "new-hash", baseTime.Add(time.Minute)); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	got, err := repos.write.GetByID(ctx, "usr-001")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PasswordHash != "new-hash" {
		t.Errorf("PasswordHash = %q, want new-hash", got.PasswordHash)
	}
	if got.Name != "Alice" || got.Email != "a@x.com" {
		t.Errorf("ChangePassword touched profile fields: %+v", got)
	}

	if err := repos.write.ChangePassword(ctx, "usr-missing", "h", baseTime); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("ChangePassword() missing user error = %v, want ErrUserNotFound", err)
	}
}

func TestUserReadRepository_List(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	users, err := repos.read.List(ctx)
	if err != nil {
		t.Fatalf("List on empty store: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("List() on empty store = %#v, want empty non-nil slice", users)
	}

	seedUser(t, repos, "usr-003", "Carol", "c@x.com", baseTime.Add(2*time.Minute))
	seedUser(t, repos, "usr-001", "Alice", "a@x.com", baseTime)
	seedUser(t, repos, "usr-002", "Bob", "b@x.com", baseTime.Add(time.Minute))

	users, err = repos.read.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	wantIDs := []string{"usr-001", "usr-002", "usr-003"}
	if len(users) != len(wantIDs) {
		t.Fatalf("len(List()) = %d, want %d", len(users), len(wantIDs))
	}
	for i, id := range wantIDs {
		if users[i].ID != id {
			t.Errorf("users[%d].ID = %q, want %q", i, users[i].ID, id)
		}
	}
}

func TestUserReadRepository_FindByEmail(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedUser(t, repos, "usr-001", "Alice", "a@x.com", baseTime)

	got, err := repos.read.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if got.ID != "usr-001" {
		t.Errorf("FindByEmail().ID = %q, want usr-001", got.ID)
	}

	for _, email := range []string{"A@x.com", " a@x.com", "a@x.com ", "b@x.com"} {
		if _, err := repos.read.FindByEmail(ctx, email); !errors.Is(err, repository.ErrUserNotFound) {
			t.Errorf("FindByEmail(%q) error = %v, want ErrUserNotFound", email, err)
		}
	}
}
