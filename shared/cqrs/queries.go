package cqrs

// GetUserQuery fetches a single user by ID.
type GetUserQuery struct {
	UserID string
}

// EmailTakenQuery checks whether an exact email string is already registered.
type EmailTakenQuery struct {
	Email string
}
