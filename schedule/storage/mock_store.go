package storage

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockStore implements the Store interface for testing
type MockStore struct {
	mock.Mock
}

// List implements the Store interface
func (m *MockStore) List(ctx context.Context, userID string, filter Filter) ([]Item, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Item), args.Error(1)
}

// Get implements the Store interface
func (m *MockStore) Get(ctx context.Context, userID, itemID string) (*Item, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

// Create implements the Store interface
func (m *MockStore) Create(ctx context.Context, userID string, item *Item) error {
	args := m.Called(ctx, userID, item)
	return args.Error(0)
}

// CreateInstanceOnce implements the Store interface
func (m *MockStore) CreateInstanceOnce(ctx context.Context, userID string, item *Item) (bool, error) {
	args := m.Called(ctx, userID, item)
	return args.Bool(0), args.Error(1)
}

// --- Helper constructors for creating test data ---

// NewTimedItem creates a test item occupying a concrete window.
func NewTimedItem(id string, typ ItemType, title string, start, end time.Time) Item {
	return Item{
		ID:        id,
		Type:      typ,
		Status:    StatusNotStarted,
		Title:     title,
		StartAt:   &start,
		EndAt:     &end,
		CreatedAt: start.AddDate(0, 0, -1),
		UpdatedAt: start.AddDate(0, 0, -1),
	}
}

// NewDueItem creates a test item carrying only a deadline.
func NewDueItem(id string, typ ItemType, title string, due time.Time) Item {
	return Item{
		ID:        id,
		Type:      typ,
		Status:    StatusNotStarted,
		Title:     title,
		DueAt:     &due,
		CreatedAt: due.AddDate(0, 0, -7),
		UpdatedAt: due.AddDate(0, 0, -7),
	}
}
