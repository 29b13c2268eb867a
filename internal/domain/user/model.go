package user

import "time"

const (
	AccessAdmin    = "admin"
	AccessEmployee = "employee"
)

// Employee is a shelter staff account as returned by /users.
type Employee struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	AccessLevel string     `json:"access_level"`
	Picture     string     `json:"picture,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
