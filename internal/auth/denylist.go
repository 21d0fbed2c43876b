package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable indicates a transient revocation-store failure. The
// request fails closed rather than skipping the revocation check.
var ErrStoreUnavailable = errors.New("revocation store unavailable")

// Denylist records revoked token ids. Entries carry a ttl at least as long
// as the longest token lifetime and expire on their own; IsRevoked must
// observe a completed Revoke immediately, under any number of concurrent
// requests.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const denylistKeyPrefix = "denylist:jti:"

// redisDenylist is the shared, authoritative implementation.
type redisDenylist struct {
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

// NewRedisDenylist wraps a redis client as a Denylist. Every round trip is
// bounded by timeout and surfaces ErrStoreUnavailable on transport failure.
func NewRedisDenylist(client *redis.Client, ttl, timeout time.Duration) Denylist {
	return &redisDenylist{client: client, ttl: ttl, timeout: timeout}
}

func (d *redisDenylist) Revoke(ctx context.Context, tokenID string) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.client.Set(ctx, denylistKeyPrefix+tokenID, "revoked", d.ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (d *redisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	n, err := d.client.Exists(ctx, denylistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, errors.Join(ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

// memoryDenylist is a process-local fallback used in tests and when no
// redis address is configured.
type memoryDenylist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	ttl     time.Duration
}

// NewMemoryDenylist builds an in-memory Denylist with the given entry ttl.
func NewMemoryDenylist(ttl time.Duration) Denylist {
	return &memoryDenylist{entries: make(map[string]time.Time), ttl: ttl}
}

func (d *memoryDenylist) Revoke(_ context.Context, tokenID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[tokenID] = time.Now().Add(d.ttl)
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.RLock()
	deadline, ok := d.entries[tokenID]
	d.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(deadline) {
		d.mu.Lock()
		delete(d.entries, tokenID)
		d.mu.Unlock()
		return false, nil
	}
	return true, nil
}
