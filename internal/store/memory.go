package store

import (
	"context"
	"encoding/json"

	"github.com/velora-shop/cartserv/internal/cart"
)

// MemoryStore keeps guest cart snapshots in process memory. Suitable for
// tests and single-instance development runs.
type MemoryStore struct {
	snapshots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) ([]cart.Item, error) {
	raw, ok := s.snapshots[sessionID]
	if !ok {
		return nil, nil
	}
	var items []cart.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MemoryStore) Save(ctx context.Context, sessionID string, items []cart.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	s.snapshots[sessionID] = raw
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	delete(s.snapshots, sessionID)
	return nil
}
