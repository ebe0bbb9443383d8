package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/eaglebank/user-accounts/internal/repository"
	"github.com/eaglebank/user-accounts/shared/cqrs"
	"github.com/eaglebank/user-accounts/shared/models"
)

// UserReader is the persistence port used by the read side.
type UserReader interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// UserQueryService builds user views from the read repository. Views never
// carry password material.
type UserQueryService struct {
	readRepo UserReader
}

func NewUserQueryService(readRepo UserReader) *UserQueryService {
	return &UserQueryService{readRepo: readRepo}
}

// ListUsers returns views in repository order. An empty store yields an
// empty, non-nil slice.
func (s *UserQueryService) ListUsers(ctx context.Context) ([]models.UserView, error) {
	users, err := s.readRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, *models.NewUserView(&users[i]))
	}
	return views, nil
}

// GetUser reports found=false for an unknown id; err is reserved for
// infrastructure failures.
func (s *UserQueryService) GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.UserView, bool, error) {
	user, err := s.readRepo.GetByID(ctx, q.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get user: %w", err)
	}
	return models.NewUserView(user), true, nil
}

func (s *UserQueryService) IsEmailTaken(ctx context.Context, q cqrs.EmailTakenQuery) (bool, error) {
	_, err := s.readRepo.FindByEmail(ctx, q.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return true, nil
}
