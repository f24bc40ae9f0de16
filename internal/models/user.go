package models

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRef is the public projection of a user attached to joined records.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (u *User) Ref() UserRef {
	return UserRef{
		ID:       u.ID,
		Username: u.Username,
	}
}
