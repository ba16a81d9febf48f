package tracker

import "context"

// ApplicationRepository defines the interface for application persistence.
// Every mutation is scoped to the owning user inside the store call itself.
type ApplicationRepository interface {
	// FindByUser returns the user's applications, newest first. Never nil.
	FindByUser(ctx context.Context, userID string) ([]Application, error)

	// Create inserts the application and returns the persisted row
	Create(ctx context.Context, app *Application) (*Application, error)

	// Update merges the patch into the row matching id and userID.
	// Returns shared.ErrNotFound when no such row exists for that owner.
	Update(ctx context.Context, id int64, userID string, patch ApplicationPatch) (*Application, error)

	// Delete removes the row matching id and userID and reports whether a row was removed
	Delete(ctx context.Context, id int64, userID string) (bool, error)
}
