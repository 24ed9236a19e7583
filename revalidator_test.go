package accountcore

import (
	"context"
	"testing"
	"time"

	"github.com/halcyonweb/accountcore/claims"
)

// ageSessions pushes the engine clock forward so the next revalidation
// sees every issued ticket as stale.
func ageSessions(engine *Engine, by time.Duration) {
	engine.now = func() time.Time { return time.Now().Add(by) }
}

func TestRevalidateSessionAbsent(t *testing.T) {
	store := newFakeAccountStore()
	engine, _, _ := newTestEngine(t, store)

	status, err := engine.RevalidateSession(context.Background())
	if err != nil {
		t.Fatalf("RevalidateSession failed: %v", err)
	}
	if status != SessionAbsent {
		t.Fatalf("expected SessionAbsent, got %v", status)
	}
}

func TestRevalidateSessionFresh(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	login(t, engine, transport)

	status, err := engine.RevalidateSession(context.Background())
	if err != nil {
		t.Fatalf("RevalidateSession failed: %v", err)
	}
	if status != SessionFresh {
		t.Fatalf("expected SessionFresh inside the interval, got %v", status)
	}
}

func TestRevalidateSessionRenewed(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	login(t, engine, transport)
	before := transport.ticket(SchemeApplication).IssuedAt

	ageSessions(engine, 40*time.Minute)

	status, err := engine.RevalidateSession(context.Background())
	if err != nil {
		t.Fatalf("RevalidateSession failed: %v", err)
	}
	if status != SessionRenewed {
		t.Fatalf("expected SessionRenewed, got %v", status)
	}

	renewed := transport.ticket(SchemeApplication)
	if renewed == nil {
		t.Fatal("expected the session to survive renewal")
	}
	if !renewed.IssuedAt.After(before) {
		t.Fatal("expected a fresh issued-at on renewal")
	}
}

func TestRevalidateSessionStampMismatch(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	ctx := context.Background()
	login(t, engine, transport)

	// A password reset elsewhere rotates the stamp out from under the
	// session.
	if _, err := store.UpdatePasswordHash(ctx, 1, "other-hash"); err != nil {
		t.Fatalf("UpdatePasswordHash failed: %v", err)
	}
	ageSessions(engine, 40*time.Minute)

	status, err := engine.RevalidateSession(ctx)
	if err != nil {
		t.Fatalf("RevalidateSession failed: %v", err)
	}
	if status != SessionRejected {
		t.Fatalf("expected SessionRejected, got %v", status)
	}
	if transport.ticket(SchemeApplication) != nil || transport.ticket(SchemeTwoFactor) != nil {
		t.Fatal("expected both schemes cleared on rejection")
	}
}

func TestRevalidateSessionAccountMissing(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	ctx := context.Background()
	login(t, engine, transport)

	store.mu.Lock()
	delete(store.accounts, 1)
	store.mu.Unlock()
	ageSessions(engine, 40*time.Minute)

	status, err := engine.RevalidateSession(ctx)
	if err != nil {
		t.Fatalf("RevalidateSession failed: %v", err)
	}
	if status != SessionRejected {
		t.Fatalf("expected SessionRejected for a deleted account, got %v", status)
	}
	if transport.ticket(SchemeApplication) != nil {
		t.Fatal("expected the session cleared for a deleted account")
	}
}

func TestRevalidateSessionReconcilesStaleUsername(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	ctx := context.Background()
	login(t, engine, transport)

	// Rename the account behind the session's back without touching the
	// stamp; renewal must carry the corrected username forward.
	store.mu.Lock()
	store.accounts[1].Email = "renamed@example.com"
	store.mu.Unlock()
	ageSessions(engine, 40*time.Minute)

	status, err := engine.RevalidateSession(ctx)
	if err != nil {
		t.Fatalf("RevalidateSession failed: %v", err)
	}
	if status != SessionRenewed {
		t.Fatalf("expected SessionRenewed, got %v", status)
	}
	renewed := transport.ticket(SchemeApplication)
	if got, _ := renewed.Assertion.First(claims.TypeUsername); got != "renamed@example.com" {
		t.Fatalf("expected username reconciled on renewal, got %q", got)
	}
}
