package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eaglebank/user-accounts/shared/models"
)

// UserReadRepository serves lookups straight from the database. Nothing is
// cached: every view reflects the stored record at call time.
type UserReadRepository struct {
	db *sql.DB
}

func NewUserReadRepository(db *sql.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// List returns every user ordered by creation time.
func (r *UserReadRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUserColumns+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return users, nil
}

func (r *UserReadRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return getUser(ctx, r.db, id)
}

// FindByEmail matches the email exactly as stored; no case folding is applied.
func (r *UserReadRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, selectUserColumns+` WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}
