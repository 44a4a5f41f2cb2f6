package models

import (
	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	ID           int64  `gorm:"column:user_id;primaryKey;autoIncrement"`
	LocationID   *int64 `gorm:"column:location_id"`
	Username     string `gorm:"column:username;not null;uniqueIndex"`
	PasswordHash string `gorm:"column:password;not null"`
	Role         string `gorm:"column:role;not null;default:''"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
// Unknown stored role tags come back as RoleNone.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   shared.BaseEntity{ID: m.ID},
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         identity.ParseRole(m.Role),
		LocationID:   m.LocationID,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.ID = u.ID
	m.LocationID = u.LocationID
	m.Username = u.Username
	m.PasswordHash = u.PasswordHash
	m.Role = string(u.Role)
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
