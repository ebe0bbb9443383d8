// Package service composes the write and read sides into the single
// user-account surface consumed by the HTTP handler and userctl.
package service

import (
	"github.com/eaglebank/user-accounts/internal/command"
	"github.com/eaglebank/user-accounts/internal/query"
)

// UserAccountService exposes list, get, create, update, delete,
// email-availability and password-change operations. Mutations come from
// the embedded command service, lookups from the query service.
type UserAccountService struct {
	*command.UserCommandService
	*query.UserQueryService
}

func NewUserAccountService(
	writeRepo command.UserWriter,
	readRepo query.UserReader,
	hasher command.PasswordHasher,
	publisher command.EventPublisher,
) *UserAccountService {
	return &UserAccountService{
		UserCommandService: command.NewUserCommandService(writeRepo, hasher, publisher),
		UserQueryService:   query.NewUserQueryService(readRepo),
	}
}
