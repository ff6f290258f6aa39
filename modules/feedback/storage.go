package feedback

import "context"

// DefaultListLimit caps ListRecent when the filter sets no limit.
const DefaultListLimit = 50

// Storage persists feedback records.
// FindByID and Update return ErrNotFound when no record matches.
type Storage interface {
	Insert(ctx context.Context, rec Record) error
	FindByID(ctx context.Context, id string) (Record, error)
	// Find returns matching records newest first, at most f.Limit of them.
	Find(ctx context.Context, f Filter) ([]Record, error)
	Update(ctx context.Context, id string, u Update) (Record, error)
	// CountByType groups records by feedback type, optionally within one application.
	CountByType(ctx context.Context, applicationName string) ([]TypeStat, error)
}
