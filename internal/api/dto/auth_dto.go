package dto

import (
	"time"

	"github.com/spec-kit/book-catalog/internal/domain"
)

// SignupRequest payload for new accounts.
type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSummary is the identity payload echoed on auth responses.
type UserSummary struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenPairResponse standard response for login and refresh.
type TokenPairResponse struct {
	AccessToken      string      `json:"access_token"`
	AccessExpiresAt  time.Time   `json:"access_expires_at"`
	RefreshToken     string      `json:"refresh_token"`
	RefreshExpiresAt time.Time   `json:"refresh_expires_at"`
	User             UserSummary `json:"user"`
}

// UserDetail full account representation for listings and /me.
type UserDetail struct {
	UID        string      `json:"uid"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Role       domain.Role `json:"role"`
	IsVerified bool        `json:"is_verified"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewUserSummary maps a domain user to its claim-shaped summary.
func NewUserSummary(user *domain.User) UserSummary {
	return UserSummary{UID: user.UID, Username: user.Username, Email: user.Email}
}

// NewUserDetail maps a domain user to the detailed representation.
func NewUserDetail(user *domain.User) UserDetail {
	return UserDetail{
		UID:        user.UID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}
