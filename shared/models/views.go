package models

// UserView is the externally visible projection of a user.
// It never carries the password hash.
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewUserView(u *User) *UserView {
	return &UserView{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
