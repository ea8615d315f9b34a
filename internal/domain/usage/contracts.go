package usage

import (
	"context"
)

// MetadataService defines read access to recorded invocations.
type MetadataService interface {
	// List retrieves usage records considering a query filter when set.
	List(ctx context.Context, query *Query) ([]*Record, error)

	// GetByID retrieves a usage record by its unique ID.
	GetByID(ctx context.Context, recordID string) (*Record, error)
}

// Repository defines the interface for usage record persistence.
type Repository interface {
	Create(ctx context.Context, record *Record) error
	List(ctx context.Context, query *Query) ([]*Record, error)
	GetByID(ctx context.Context, recordID string) (*Record, error)
}
