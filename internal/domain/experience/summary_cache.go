package experience

import "context"

// SummaryCache holds the latest company aggregation between submissions.
//
// Every Invalidate bumps a version. A reader takes Version before loading
// submissions and hands it to Set, which drops the write when a submission
// invalidated the cache in between.
type SummaryCache interface {
	// Get returns the cached summaries; ok is false on a miss
	Get(ctx context.Context) (summaries []CompanySummary, ok bool, err error)
	// Version returns the current invalidation count
	Version(ctx context.Context) (int64, error)
	// Set stores summaries computed at version. It is a no-op when the
	// cache has been invalidated since.
	Set(ctx context.Context, version int64, summaries []CompanySummary) error
	// Invalidate drops the cached summaries and bumps the version
	Invalidate(ctx context.Context) error
}
