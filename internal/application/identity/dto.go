package identity

import (
	"time"

	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
)

// CreateUserRequest contains the input for creating a staff account
type CreateUserRequest struct {
	Username   string
	Password   string
	Role       string
	LocationID *int64
}

// UpdateUserRequest changes role, location or password. Empty fields are kept.
type UpdateUserRequest struct {
	Role          string
	LocationID    *int64
	ClearLocation bool
	Password      string
}

// UserFilter selects users for listing
type UserFilter struct {
	shared.Filter
	Role       string
	LocationID *int64
}

// UserInfo is the public view of an account, without its hash
type UserInfo struct {
	ID         int64         `json:"user_id"`
	Username   string        `json:"username"`
	Role       identity.Role `json:"role"`
	LocationID *int64        `json:"location_id,omitempty"`
}

// ToUserInfo converts a domain user
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, Role: u.Role, LocationID: u.LocationID}
}

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login logging
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
	User        UserInfo  `json:"user"`
}
