package store

import (
	"context"

	"github.com/velora-shop/cartserv/internal/cart"
)

// Interface persists anonymous cart snapshots between visits, keyed by
// guest session id. It is the fallback state for sessions that are offline
// or not logged in; once a session is associated with a user the server
// cart is authoritative and the snapshot is deleted.
type Interface interface {
	// Load returns the stored snapshot, or nil when none exists.
	Load(ctx context.Context, sessionID string) ([]cart.Item, error)
	Save(ctx context.Context, sessionID string, items []cart.Item) error
	Delete(ctx context.Context, sessionID string) error
}
