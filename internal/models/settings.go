package models

import (
	"time"
)

// SettingsID is the primary key of the only settings row.
const SettingsID uint = 1

// Settings holds global portal settings. A nil deadline means uploads are
// always accepted.
type Settings struct {
	ID               uint `gorm:"primaryKey"`
	DeadlineDatetime *time.Time
	UpdatedAt        time.Time
}

func (Settings) TableName() string {
	return "settings"
}
