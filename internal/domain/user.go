package domain

import "time"

// Role identifies the authorization level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the domain model for catalog accounts.
type User struct {
	UID          string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Role         Role
	IsVerified   bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
