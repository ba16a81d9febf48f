package identity

import "context"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID. A missing user is (nil, nil).
	FindByID(ctx context.Context, id string) (*User, error)

	// Upsert inserts the user or merges the supplied fields into the existing row
	// in one statement, refreshing updated_at.
	Upsert(ctx context.Context, candidate UserCandidate) (*User, error)
}
