package trip

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("trip not found")
	// ErrInvalidTrip is returned for trips without a destination or with unusable numbers.
	ErrInvalidTrip = errors.New("invalid trip")
)

// Store persists trips. List is ordered by GeneratedAt, newest first.
type Store interface {
	Create(ctx context.Context, t *Trip) error
	List(ctx context.Context) ([]Trip, error)
	Get(ctx context.Context, id string) (*Trip, error)
	Delete(ctx context.Context, id string) error
	// FindDuplicate returns ErrNotFound when no trip shares the key.
	FindDuplicate(ctx context.Context, key DedupKey) (*Trip, error)
	Ping(ctx context.Context) error
}
