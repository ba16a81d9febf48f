package experience

import "context"

// SubmissionRepository defines the interface for submission persistence.
// There is no update or delete path.
type SubmissionRepository interface {
	// Create inserts the submission and returns the persisted row
	Create(ctx context.Context, sub *Submission) (*Submission, error)

	// FindByID finds a submission by ID. A missing submission is (nil, nil).
	FindByID(ctx context.Context, id int64) (*Submission, error)

	// FindByUser returns the user's submissions, newest first
	FindByUser(ctx context.Context, userID string) ([]Submission, error)

	// FindAll returns every submission, newest first
	FindAll(ctx context.Context) ([]Submission, error)

	// Search returns the submissions matching the filter, newest first
	Search(ctx context.Context, filter Filter) ([]Submission, error)
}
