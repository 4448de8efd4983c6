// Package storage defines the schedulable item model and the Store
// interface that connects the scheduling engine with backend item storage.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a requested item doesn't exist
	ErrNotFound = errors.New("item not found")
	// ErrInvalidInput is returned when the input parameters are invalid
	ErrInvalidInput = errors.New("invalid input parameters")
	// ErrAlreadyExists is returned when creating an item whose id is taken
	ErrAlreadyExists = errors.New("item already exists")
	// ErrStorageUnavailable is returned when the storage backend is unavailable
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Store interface connects your backend storage (e.g. database) with the
// scheduling engine. Please use the error types provided. Every method takes
// an explicit user id; there is no implicit default tenant.
type Store interface {
	// List returns the user's items matching the filter.
	List(ctx context.Context, userID string, filter Filter) ([]Item, error)
	// Get retrieves a single item by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, userID, itemID string) (*Item, error)
	// Create persists a new item. Implementations should fill CreatedAt
	// and UpdatedAt, and assign an ID when the item carries none.
	Create(ctx context.Context, userID string, item *Item) error
	// CreateInstanceOnce persists a materialized occurrence unless one
	// already exists for the same (OriginalItemID, DueAt) pair, and
	// reports whether a row was inserted. The existence check and the
	// insert must be atomic so concurrent callers cannot both create.
	CreateInstanceOnce(ctx context.Context, userID string, item *Item) (bool, error)
}
