package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/velora-shop/cartserv/internal/cart"
	"github.com/velora-shop/cartserv/pkg/redis"
)

const defaultSnapshotTTL = 720 * time.Hour

// RedisStore keeps guest cart snapshots in Redis so an anonymous cart
// survives service restarts.
type RedisStore struct {
	db  *redis.RedisDB
	ttl time.Duration
}

func NewRedisStore(db *redis.RedisDB, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &RedisStore{db: db, ttl: ttl}
}

func snapshotKey(sessionID string) string {
	return "guest_cart:" + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]cart.Item, error) {
	raw, err := s.db.Get(ctx, snapshotKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to load guest cart: %w", err)
	}
	if raw == "" {
		return nil, nil
	}
	var items []cart.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to decode guest cart: %w", err)
	}
	return items, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, items []cart.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode guest cart: %w", err)
	}
	if err := s.db.Set(ctx, snapshotKey(sessionID), string(raw), s.ttl); err != nil {
		return fmt.Errorf("failed to save guest cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.db.Del(ctx, snapshotKey(sessionID)); err != nil {
		return fmt.Errorf("failed to delete guest cart: %w", err)
	}
	return nil
}
