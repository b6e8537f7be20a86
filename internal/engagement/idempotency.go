package engagement

import (
	"context"
	"time"
)

// IdempotencyStore is the subset of the redis client the ingest guard uses.
type IdempotencyStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

// IdempotencyGuard deduplicates ingested events by client-supplied event id.
// The first claim wins; replays inside the TTL are reported as duplicates and
// never reach storage.
type IdempotencyGuard struct {
	store IdempotencyStore
	ttl   time.Duration
}

func NewIdempotencyGuard(store IdempotencyStore, ttl time.Duration) *IdempotencyGuard {
	return &IdempotencyGuard{store: store, ttl: ttl}
}

// Claim marks the event id as seen. It returns false when the id was already
// claimed. Guard failures are surfaced so the caller can decide whether to
// ingest anyway; dedup is best effort, correctness lives in the event log
// being append-only.
func (g *IdempotencyGuard) Claim(ctx context.Context, eventID string) (bool, error) {
	if g == nil || g.store == nil || eventID == "" {
		return true, nil
	}
	return g.store.SetNX(ctx, g.store.IdempotencyKey("event", eventID), "1", g.ttl)
}

// Release frees a claimed event id so a retry can claim it again. Callers use
// it when the write behind a successful claim failed; without the release a
// retry of the same id would be misreported as a duplicate of a row that was
// never written.
func (g *IdempotencyGuard) Release(ctx context.Context, eventID string) error {
	if g == nil || g.store == nil || eventID == "" {
		return nil
	}
	return g.store.Del(ctx, g.store.IdempotencyKey("event", eventID))
}
