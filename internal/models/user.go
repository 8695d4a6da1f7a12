package models

import (
	"time"
)

// Role is the access level of an account. It travels inside identity tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a wire value to a Role. An empty value means RoleUser.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case "", RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// User is a registered account. Email is unique across all roles.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:100;not null"`
	Email          string `gorm:"size:120;uniqueIndex;not null"`
	HashedPassword string `gorm:"size:200;not null" json:"-"`
	Role           Role   `gorm:"column:user_type;size:10;not null;default:'user'"`
	Documents      []Document
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
