// memory based implementation for testing purposes
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tmajkech/libsched/schedule/storage"
)

// Store implements storage.Store using in-memory maps
type Store struct {
	mu    sync.RWMutex
	items map[string]*storage.Item // key: userID/itemID
	// instances indexes materialized occurrences so CreateInstanceOnce is
	// a single check-and-insert under the lock. key: userID/originalID/dueAt
	instances map[string]string
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		items:     make(map[string]*storage.Item),
		instances: make(map[string]string),
	}
}

func (s *Store) itemKey(userID, itemID string) string {
	return fmt.Sprintf("%s/%s", userID, itemID)
}

func instanceKey(userID, originalID string, due time.Time) string {
	return fmt.Sprintf("%s/%s/%s", userID, originalID, due.UTC().Format(time.RFC3339))
}

func (s *Store) List(_ context.Context, userID string, filter storage.Filter) ([]storage.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []storage.Item
	for _, item := range s.items {
		if item.UserID != userID {
			continue
		}
		if !filter.Matches(item) {
			continue
		}
		items = append(items, *item)
	}

	// Map iteration order is random; keep results stable for callers.
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) Get(_ context.Context, userID, itemID string) (*storage.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[s.itemKey(userID, itemID)]
	if !ok {
		return nil, storage.ErrNotFound
	}

	cp := *item
	return &cp, nil
}

func (s *Store) Create(_ context.Context, userID string, item *storage.Item) error {
	if item == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createLocked(userID, item)
}

func (s *Store) CreateInstanceOnce(_ context.Context, userID string, item *storage.Item) (bool, error) {
	if item == nil || item.OriginalItemID == "" || item.DueAt == nil {
		return false, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := instanceKey(userID, item.OriginalItemID, *item.DueAt)
	if _, exists := s.instances[key]; exists {
		return false, nil
	}

	if err := s.createLocked(userID, item); err != nil {
		return false, err
	}
	s.instances[key] = item.ID
	return true, nil
}

func (s *Store) createLocked(userID string, item *storage.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.UserID = userID

	key := s.itemKey(userID, item.ID)
	if _, exists := s.items[key]; exists {
		return storage.ErrAlreadyExists
	}

	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	cp := *item
	s.items[key] = &cp
	return nil
}
