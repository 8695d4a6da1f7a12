package models

import (
	"time"
)

// IssuedToken records an identity token handed out at login.
type IssuedToken struct {
	ID           uint    `gorm:"primaryKey"`
	ClientID     string  `gorm:"not null"`
	UserID       string  `gorm:"index;not null"`
	AccessToken  string  `gorm:"size:1024;uniqueIndex;not null"`
	RefreshToken *string `gorm:"size:1024;index"`
	Scopes       string
	ExpiresAt    time.Time `gorm:"not null"`
	CreatedAt    time.Time
}

func (IssuedToken) TableName() string {
	return "issued_tokens"
}
