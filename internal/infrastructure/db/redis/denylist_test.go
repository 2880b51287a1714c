package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestDenylist_RevokeThenCheck(t *testing.T) {
	_, client := newTestClient(t)
	d := NewDenylist(client)
	ctx := context.Background()

	revoked, err := d.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if revoked {
		t.Fatal("fresh jti must not be revoked")
	}

	if err := d.Revoke(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	revoked, err = d.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !revoked {
		t.Fatal("revoked jti must be reported as spent")
	}
}

func TestDenylist_EntryExpiresWithTokenLifetime(t *testing.T) {
	mr, client := newTestClient(t)
	d := NewDenylist(client)
	ctx := context.Background()

	if err := d.Revoke(ctx, "jti-2", time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	revoked, err := d.IsRevoked(ctx, "jti-2")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if revoked {
		t.Fatal("entry must be garbage-collected after the token's lifetime")
	}
}

func TestDenylist_JTIsAreIndependent(t *testing.T) {
	_, client := newTestClient(t)
	d := NewDenylist(client)
	ctx := context.Background()

	if err := d.Revoke(ctx, "jti-a", time.Hour); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err := d.IsRevoked(ctx, "jti-b")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if revoked {
		t.Fatal("revoking one jti must not affect another")
	}
}
