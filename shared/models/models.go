package models

import "time"

// User is the persisted user record. PasswordHash holds a bcrypt hash and is
// never serialised.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}
