package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/gradguide/backend/internal/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is an identity record keyed by the id the upstream identity provider assigns.
// The id is never generated locally and never changes.
type User struct {
	ID              string
	Email           *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserCandidate carries the fields of an upsert. Nil fields are left untouched
// on an existing row.
type UserCandidate struct {
	ID              string
	Email           *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
}

// Validate checks the candidate before it reaches the store
func (c *UserCandidate) Validate() error {
	c.ID = strings.TrimSpace(c.ID)
	if c.ID == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "User id cannot be empty")
	}
	if len(c.ID) > 255 {
		return shared.NewDomainError(shared.CodeInvalidInput, "User id cannot exceed 255 characters")
	}
	if c.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*c.Email))
		if email == "" {
			c.Email = nil
		} else {
			if !emailRegex.MatchString(email) {
				return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
			}
			c.Email = &email
		}
	}
	return nil
}

// DisplayName returns first and last name joined, or the email when no name is known
func (u *User) DisplayName() string {
	var parts []string
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if u.Email != nil {
		return *u.Email
	}
	return ""
}
