package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryDenylist_RevokeThenObserve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	denylist := NewMemoryDenylist(time.Hour)

	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked error: %v", err)
	}
	if revoked {
		t.Fatalf("fresh id reported revoked")
	}

	if err := denylist.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}

	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked error: %v", err)
	}
	if !revoked {
		t.Fatalf("revoked id not observed")
	}
}

func TestMemoryDenylist_RevokeIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	denylist := NewMemoryDenylist(time.Hour)

	for i := 0; i < 3; i++ {
		if err := denylist.Revoke(ctx, "jti-1"); err != nil {
			t.Fatalf("Revoke #%d error: %v", i+1, err)
		}
	}

	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked error: %v", err)
	}
	if !revoked {
		t.Fatalf("revoked id not observed")
	}
}

func TestMemoryDenylist_EntriesExpire(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	denylist := NewMemoryDenylist(10 * time.Millisecond)

	if err := denylist.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked error: %v", err)
	}
	if revoked {
		t.Fatalf("entry survived past its ttl")
	}
}

func TestMemoryDenylist_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	denylist := NewMemoryDenylist(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("jti-%d", n)
			if err := denylist.Revoke(ctx, id); err != nil {
				t.Errorf("Revoke error: %v", err)
				return
			}
			revoked, err := denylist.IsRevoked(ctx, id)
			if err != nil {
				t.Errorf("IsRevoked error: %v", err)
				return
			}
			if !revoked {
				t.Errorf("id %s not observed after Revoke returned", id)
			}
		}(i)
	}
	wg.Wait()
}
