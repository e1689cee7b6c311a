package models

import "time"

const (
	RoleUser  = 0
	RoleAdmin = 1
)

type User struct {
	ID               string     `json:"_id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	Lastname         string     `json:"lastname,omitempty"`
	Role             int        `json:"role"`
	Image            string     `json:"image,omitempty"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
	Credentials      `json:"-"`
}

// Credentials never leave the process: the hash and the current session token
// are only read by the authenticator.
type Credentials struct {
	PassHash []byte
	Token    string
	TokenExp int64
}

func (u User) IsAdmin() bool {
	return u.Role != RoleUser
}
