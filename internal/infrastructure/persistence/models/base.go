package models

import "time"

// TimestampModel provides the creation and update timestamps shared by mutable tables
type TimestampModel struct {
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
