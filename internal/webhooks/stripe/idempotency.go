package stripewebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beezio/beezio-backend/pkg/redis"
)

const defaultGuardTTL = 24 * time.Hour

// EventGuard is a best-effort redis gate that short-circuits redelivered
// webhook events before they reach the reconciliation logic. Storage-layer
// uniqueness constraints remain the source of correctness; the guard just
// saves work.
type EventGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	scope string
}

func NewEventGuard(store redis.IdempotencyStore, ttl time.Duration, scope string) (*EventGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	if ttl <= 0 {
		ttl = defaultGuardTTL
	}
	return &EventGuard{
		store: store,
		ttl:   ttl,
		scope: scope,
	}, nil
}

// CheckAndMark reports whether the event id was already seen, marking it
// seen if not.
func (g *EventGuard) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errors.New("event id is required")
	}
	key := g.store.IdempotencyKey(g.scope, eventID)
	set, err := g.store.SetNX(ctx, key, "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return !set, nil
}

// Release unmarks an event so the sender's retry can be processed after a
// handler failure.
func (g *EventGuard) Release(ctx context.Context, eventID string) error {
	if eventID == "" {
		return errors.New("event id is required")
	}
	key := g.store.IdempotencyKey(g.scope, eventID)
	return g.store.Del(ctx, key)
}
