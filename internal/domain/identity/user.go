package identity

import (
	"regexp"
	"strings"

	"github.com/paragon/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used for new hashes. Tests lower it.
var PasswordCost = 12

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	hasLetter     = regexp.MustCompile(`[a-zA-Z]`)
	hasNumber     = regexp.MustCompile(`[0-9]`)
)

// User is a staff account. Passwords are only ever held as bcrypt hashes.
type User struct {
	shared.BaseEntity
	Username     string
	PasswordHash string
	Role         Role
	LocationID   *int64
}

// NewUser creates a user with a hashed password
func NewUser(username, password string, role Role, locationID *int64) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if !role.IsValid() && role != RoleNone {
		return nil, shared.NewValidationError("role", "unknown role '"+string(role)+"'")
	}

	u := &User{
		Username:   strings.ToLower(strings.TrimSpace(username)),
		Role:       role,
		LocationID: locationID,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	return nil
}

// ChangePassword verifies the old password before setting a new one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewValidationError("password", "current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// AssignRole changes the user's role and location
func (u *User) AssignRole(role Role, locationID *int64) error {
	if !role.IsValid() && role != RoleNone {
		return shared.NewValidationError("role", "unknown role '"+string(role)+"'")
	}
	u.Role = role
	u.LocationID = locationID
	return nil
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewValidationError("username", "username is required")
	}
	if len(username) > 50 {
		return shared.NewValidationError("username", "username cannot exceed 50 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewValidationError("username", "username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return shared.NewValidationError("password", "password must be at least 6 characters")
	}
	if len(password) > 72 {
		return shared.NewValidationError("password", "password cannot exceed 72 characters")
	}
	if !hasLetter.MatchString(password) || !hasNumber.MatchString(password) {
		return shared.NewValidationError("password", "password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
