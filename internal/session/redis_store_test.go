package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"casaplan/api/internal/store"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	rs, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	return rs, s
}

func TestNewRedisStore(t *testing.T) {
	rs, s := setupTestRedis(t)
	defer rs.Close()
	defer s.Close()

	if err := rs.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestSaveAndLookupRefreshSession(t *testing.T) {
	rs, s := setupTestRedis(t)
	defer rs.Close()
	defer s.Close()

	ctx := context.Background()
	user := store.User{ID: "user-123", DisplayName: "Dana", Role: "professional", AvatarURL: "https://cdn.example/a.png"}

	if err := rs.SaveRefreshSession(ctx, "hash-1", user, time.Now().Add(24*time.Hour)); err != nil {
		t.Fatalf("SaveRefreshSession failed: %v", err)
	}

	got, err := rs.LookupRefreshSession(ctx, "hash-1")
	if err != nil {
		t.Fatalf("LookupRefreshSession failed: %v", err)
	}
	if got.ID != user.ID || got.DisplayName != user.DisplayName || got.Role != user.Role {
		t.Errorf("lookup mismatch: got %+v", got)
	}
}

func TestLookupUnknownToken(t *testing.T) {
	rs, s := setupTestRedis(t)
	defer rs.Close()
	defer s.Close()

	if _, err := rs.LookupRefreshSession(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown token")
	}
}

func TestLookupDefaultsRoleToClient(t *testing.T) {
	rs, s := setupTestRedis(t)
	defer rs.Close()
	defer s.Close()

	ctx := context.Background()
	if err := rs.SaveRefreshSession(ctx, "hash-2", store.User{ID: "u2", DisplayName: "Sam"}, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SaveRefreshSession failed: %v", err)
	}
	got, err := rs.LookupRefreshSession(ctx, "hash-2")
	if err != nil {
		t.Fatalf("LookupRefreshSession failed: %v", err)
	}
	if got.Role != "client" {
		t.Errorf("expected empty role to default to client, got %q", got.Role)
	}
}

func TestRevokeRefreshSession(t *testing.T) {
	rs, s := setupTestRedis(t)
	defer rs.Close()
	defer s.Close()

	ctx := context.Background()
	if err := rs.SaveRefreshSession(ctx, "hash-3", store.User{ID: "u3"}, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SaveRefreshSession failed: %v", err)
	}
	if err := rs.RevokeRefreshSession(ctx, "hash-3"); err != nil {
		t.Fatalf("RevokeRefreshSession failed: %v", err)
	}
	if _, err := rs.LookupRefreshSession(ctx, "hash-3"); err == nil {
		t.Fatal("expected revoked token to be gone")
	}
}

func TestRefreshSessionExpires(t *testing.T) {
	rs, s := setupTestRedis(t)
	defer rs.Close()
	defer s.Close()

	ctx := context.Background()
	if err := rs.SaveRefreshSession(ctx, "hash-4", store.User{ID: "u4"}, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("SaveRefreshSession failed: %v", err)
	}

	s.FastForward(2 * time.Minute)

	if _, err := rs.LookupRefreshSession(ctx, "hash-4"); err == nil {
		t.Fatal("expected expired token to be gone")
	}
}
