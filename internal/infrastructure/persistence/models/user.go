package models

import (
	"github.com/gradguide/backend/internal/domain/identity"
)

// UserModel is the persistence model for identity.User
type UserModel struct {
	ID              string  `gorm:"type:varchar(255);primaryKey"`
	Email           *string `gorm:"type:varchar(255);uniqueIndex"`
	FirstName       *string `gorm:"type:varchar(255)"`
	LastName        *string `gorm:"type:varchar(255)"`
	ProfileImageURL *string `gorm:"column:profile_image_url;type:varchar(1024)"`
	TimestampModel
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// UserModelFromCandidate builds the insert row of an upsert
func UserModelFromCandidate(c identity.UserCandidate) *UserModel {
	return &UserModel{
		ID:              c.ID,
		Email:           c.Email,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		ProfileImageURL: c.ProfileImageURL,
	}
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		ID:              m.ID,
		Email:           m.Email,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		ProfileImageURL: m.ProfileImageURL,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// SuppliedUserColumns lists the columns an upsert candidate provides
func SuppliedUserColumns(c identity.UserCandidate) []string {
	var cols []string
	if c.Email != nil {
		cols = append(cols, "email")
	}
	if c.FirstName != nil {
		cols = append(cols, "first_name")
	}
	if c.LastName != nil {
		cols = append(cols, "last_name")
	}
	if c.ProfileImageURL != nil {
		cols = append(cols, "profile_image_url")
	}
	return cols
}
