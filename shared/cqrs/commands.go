package cqrs

type CreateUserCommand struct {
	Name     string
	Email    string
	Password string
}

type UpdateUserCommand struct {
	UserID string
	Name   string
	Email  string
}

type DeleteUserCommand struct {
	UserID string
}

type ChangePasswordCommand struct {
	UserID      string
	OldPassword string
	NewPassword string
}
