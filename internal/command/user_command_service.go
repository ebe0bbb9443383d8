package command

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/eaglebank/user-accounts/internal/repository"
	"github.com/eaglebank/user-accounts/shared/apperror"
	"github.com/eaglebank/user-accounts/shared/cqrs"
	"github.com/eaglebank/user-accounts/shared/events"
	"github.com/eaglebank/user-accounts/shared/models"
	"github.com/eaglebank/user-accounts/shared/utils"
)

// MsgInvalidOldPassword is returned verbatim to API clients.
const MsgInvalidOldPassword = "Old password does not match"

// UserWriter is the persistence port used by the write side.
type UserWriter interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// UserCommandService applies user mutations. Persistence failures are
// reported as failed results, never retried, and a domain event is
// published after each successful change.
type UserCommandService struct {
	writeRepo UserWriter
	hasher    PasswordHasher
	publisher EventPublisher
	now       func() time.Time
	newID     func() string
}

func NewUserCommandService(writeRepo UserWriter, hasher PasswordHasher, publisher EventPublisher) *UserCommandService {
	return &UserCommandService{
		writeRepo: writeRepo,
		hasher:    hasher,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     utils.GenerateUserID,
	}
}

func (s *UserCommandService) CreateUser(ctx context.Context, cmd cqrs.CreateUserCommand) cqrs.CommandResult {
	passwordHash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return s.fail(ctx, "create user", apperror.Wrap(apperror.KindHashing, "Failed to create user", err))
	}

	now := s.now()
	user := &models.User{
		ID:           s.newID(),
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.writeRepo.Create(ctx, user); err != nil {
		return s.fail(ctx, "create user", persistenceError("Failed to create user", err))
	}

	s.publish(ctx, events.UserCreated, events.UserCreatedEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	return cqrs.Succeeded(user.ID)
}

func (s *UserCommandService) UpdateUser(ctx context.Context, cmd cqrs.UpdateUserCommand) cqrs.CommandResult {
	user, result, ok := s.load(ctx, "update user", cmd.UserID)
	if !ok {
		return result
	}

	user.Name = cmd.Name
	user.Email = cmd.Email
	user.UpdatedAt = s.now()
	if err := s.writeRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return cqrs.NotFound()
		}
		return s.fail(ctx, "update user", persistenceError("Failed to update user", err))
	}

	s.publish(ctx, events.UserUpdated, events.UserUpdatedEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	return cqrs.Succeeded(user.ID)
}

func (s *UserCommandService) DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) cqrs.CommandResult {
	if _, result, ok := s.load(ctx, "delete user", cmd.UserID); !ok {
		return result
	}

	if err := s.writeRepo.Delete(ctx, cmd.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return cqrs.NotFound()
		}
		return s.fail(ctx, "delete user", persistenceError("Failed to delete user", err))
	}

	s.publish(ctx, events.UserDeleted, events.UserDeletedEvent{UserID: cmd.UserID})
	return cqrs.Succeeded(cmd.UserID)
}

// ChangePassword is the only command that returns an error: a wrong old
// password yields an INVALID_CREDENTIALS *apperror.Error and the stored
// hash is left as it was. Absence is still a NotFound result.
func (s *UserCommandService) ChangePassword(ctx context.Context, cmd cqrs.ChangePasswordCommand) (cqrs.CommandResult, error) {
	user, result, ok := s.load(ctx, "change password", cmd.UserID)
	if !ok {
		return result, nil
	}

	if !s.hasher.Verify(cmd.OldPassword, user.PasswordHash) {
		return cqrs.CommandResult{}, apperror.New(apperror.KindInvalidCredentials, MsgInvalidOldPassword)
	}

	newHash, err := s.hasher.Hash(cmd.NewPassword)
	if err != nil {
		return s.fail(ctx, "change password", apperror.Wrap(apperror.KindHashing, "Failed to change password", err)), nil
	}

	if err := s.writeRepo.ChangePassword(ctx, user.ID, newHash, s.now()); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return cqrs.NotFound(), nil
		}
		return s.fail(ctx, "change password", persistenceError("Failed to change password", err)), nil
	}

	s.publish(ctx, events.UserPasswordChanged, events.UserPasswordChangedEvent{UserID: user.ID})
	return cqrs.Succeeded(user.ID), nil
}

// load fetches the target record. ok is false when the caller should return
// result as is.
func (s *UserCommandService) load(ctx context.Context, op, id string) (user *models.User, result cqrs.CommandResult, ok bool) {
	user, err := s.writeRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, cqrs.NotFound(), false
	}
	if err != nil {
		return nil, s.fail(ctx, op, persistenceError("Failed to load user", err)), false
	}
	return user, cqrs.CommandResult{}, true
}

func (s *UserCommandService) fail(ctx context.Context, op string, err *apperror.Error) cqrs.CommandResult {
	slog.ErrorContext(ctx, "user command failed", "op", op, "kind", err.Kind, "error", err.Err)
	return cqrs.Failed(err)
}

func (s *UserCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, events.UserEventsStream, eventType, data); err != nil {
		slog.WarnContext(ctx, "failed to publish user event", "type", eventType, "error", err)
	}
}

func persistenceError(message string, err error) *apperror.Error {
	if errors.Is(err, repository.ErrEmailExists) {
		return apperror.Wrap(apperror.KindDuplicateEmail, "Email already taken", err)
	}
	return apperror.Wrap(apperror.KindPersistence, message, err)
}
