package session

import (
	"context"
	"testing"
	"time"

	"github.com/warelane/stockscan/internal/domain"
)

func TestMemoryStore_CreateGetDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	alice := domain.Identity{Email: "alice@example.com", Name: "Alice"}

	if err := s.Create(ctx, "sid-1", alice, time.Minute); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Email != alice.Email || got.Name != alice.Name {
		t.Fatalf("got %+v, want %+v", got, alice)
	}

	if err := s.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := s.Get(ctx, "sid-1"); got != nil {
		t.Fatal("deleted session should be gone")
	}
}

func TestMemoryStore_IdleExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Create(ctx, "sid-1", domain.Identity{Email: "a@b.co"}, 10*time.Millisecond); err != nil {
		t.Fatalf("Create: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if got, _ := s.Get(ctx, "sid-1"); got != nil {
		t.Fatal("expired session should not resolve")
	}
}

func TestMemoryStore_TouchSlidesExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Create(ctx, "sid-1", domain.Identity{Email: "a@b.co"}, 30*time.Millisecond); err != nil {
		t.Fatalf("Create: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := s.Touch(ctx, "sid-1", 100*time.Millisecond); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	time.Sleep(40 * time.Millisecond)

	if got, _ := s.Get(ctx, "sid-1"); got == nil {
		t.Fatal("touched session should still be live")
	}
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	s := NewMemoryStore()
	got, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatal("unknown session should resolve to nil")
	}
}
