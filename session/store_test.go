package session

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/halcyonweb/accountcore/claims"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func applicationTicket(accountID int64) *Ticket {
	return &Ticket{
		Assertion: claims.NewBuilder(SchemeApplication).
			Add(claims.TypeAccountID, strconv.FormatInt(accountID, 10)).
			Add(claims.TypeUsername, "alice@example.com").
			Add(claims.TypeSecurityStamp, "stamp-1").
			Build(),
		IssuedAt: time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()
	store := NewStore(rdb, "ac")

	in := applicationTicket(7)
	if err := store.Save(ctx, SchemeApplication, "t1", in, time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := store.Load(ctx, SchemeApplication, "t1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !out.IssuedAt.Equal(in.IssuedAt) {
		t.Fatalf("expected IssuedAt %v, got %v", in.IssuedAt, out.IssuedAt)
	}
	if got, _ := out.Assertion.First(claims.TypeSecurityStamp); got != "stamp-1" {
		t.Fatalf("expected stamp claim to survive, got %q", got)
	}
	if out.Assertion.Len() != in.Assertion.Len() {
		t.Fatalf("expected %d claims, got %d", in.Assertion.Len(), out.Assertion.Len())
	}
}

func TestStoreLoadMissing(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewStore(rdb, "ac")

	if _, err := store.Load(context.Background(), SchemeApplication, "nope"); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestStoreTicketExpires(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()
	store := NewStore(rdb, "ac")

	if err := store.Save(ctx, SchemeApplication, "t1", applicationTicket(7), time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Load(ctx, SchemeApplication, "t1"); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound after TTL, got %v", err)
	}
}

func TestStoreDeleteIdempotent(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()
	store := NewStore(rdb, "ac")

	if err := store.Save(ctx, SchemeApplication, "t1", applicationTicket(7), time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, SchemeApplication, "t1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, SchemeApplication, "t1"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, SchemeApplication, "t1"); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound after delete, got %v", err)
	}
}

func TestStoreDeleteAllForAccount(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()
	store := NewStore(rdb, "ac")

	for _, id := range []string{"t1", "t2", "t3"} {
		if err := store.Save(ctx, SchemeApplication, id, applicationTicket(7), time.Hour); err != nil {
			t.Fatalf("Save %s failed: %v", id, err)
		}
	}

	if err := store.DeleteAllForAccount(ctx, SchemeApplication, 7); err != nil {
		t.Fatalf("DeleteAllForAccount failed: %v", err)
	}
	for _, id := range []string{"t1", "t2", "t3"} {
		if _, err := store.Load(ctx, SchemeApplication, id); !errors.Is(err, ErrTicketNotFound) {
			t.Fatalf("expected %s to be gone, got %v", id, err)
		}
	}

	// Sweeping an account with no live sessions is fine.
	if err := store.DeleteAllForAccount(ctx, SchemeApplication, 7); err != nil {
		t.Fatalf("second DeleteAllForAccount failed: %v", err)
	}
}

func TestStoreSaveRejectsInvalidInput(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()
	store := NewStore(rdb, "ac")

	if err := store.Save(ctx, SchemeApplication, "", applicationTicket(7), time.Hour); err == nil {
		t.Fatal("expected empty ticket id rejection")
	}
	if err := store.Save(ctx, SchemeApplication, "t1", nil, time.Hour); err == nil {
		t.Fatal("expected nil ticket rejection")
	}
	if err := store.Save(ctx, SchemeApplication, "t1", applicationTicket(7), 0); err == nil {
		t.Fatal("expected non-positive ttl rejection")
	}
}

func TestStoreCorruptTicket(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()
	store := NewStore(rdb, "ac")

	if err := rdb.Set(ctx, "ac:t:Application:bad", "{not json", time.Hour).Err(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := store.Load(ctx, SchemeApplication, "bad"); err == nil {
		t.Fatal("expected corrupt ticket error")
	}
}
