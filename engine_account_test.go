package accountcore

import (
	"context"
	"errors"
	"testing"

	"github.com/halcyonweb/accountcore/claims"
)

// login signs alice in and returns the engine's view of her session stamp.
func login(t *testing.T, engine *Engine, transport *fakeTransport) string {
	t.Helper()

	result, err := engine.PasswordLogin(context.Background(), "alice@example.com", "correct horse", false)
	if err != nil {
		t.Fatalf("PasswordLogin failed: %v", err)
	}
	if !result.Succeeded() {
		t.Fatal("expected login to succeed")
	}
	stamp, _ := transport.ticket(SchemeApplication).Assertion.First(claims.TypeSecurityStamp)
	return stamp
}

func sessionStamp(t *testing.T, transport *fakeTransport) string {
	t.Helper()

	ticket := transport.ticket(SchemeApplication)
	if ticket == nil {
		t.Fatal("expected a live application session")
	}
	stamp, _ := ticket.Assertion.First(claims.TypeSecurityStamp)
	return stamp
}

func TestCreateAccount(t *testing.T) {
	store := newFakeAccountStore()
	engine, _, _ := newTestEngine(t, store)
	ctx := context.Background()

	result, err := engine.CreateAccount(ctx, CreateAccountRequest{
		Email:       "bob@example.com",
		Password:    "hunter2hunter2",
		DisplayName: "Bob",
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if !result.Succeeded() {
		t.Fatal("expected account creation to succeed")
	}
	created := result.Account()
	if created == nil || created.AccountID == 0 {
		t.Fatalf("expected a stored account with an id, got %+v", created)
	}
	if created.SecurityStamp == "" {
		t.Fatal("expected a fresh security stamp")
	}
	if !newTestHasher(t, 10000).Verify(created.PasswordHash, "hunter2hunter2") {
		t.Fatal("expected the stored hash to verify the password")
	}
}

func TestCreateAccountEmailInUse(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, _, _ := newTestEngine(t, store)

	result, err := engine.CreateAccount(context.Background(), CreateAccountRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if !result.EmailInUse() || result.Account() != nil {
		t.Fatal("expected EmailInUse for a taken address")
	}
}

func TestCreateAccountRejectsEmptyInput(t *testing.T) {
	store := newFakeAccountStore()
	engine, _, _ := newTestEngine(t, store)
	ctx := context.Background()

	if _, err := engine.CreateAccount(ctx, CreateAccountRequest{Password: "hunter2"}); !errors.Is(err, ErrArgument) {
		t.Fatalf("expected ErrArgument for empty email, got %v", err)
	}
	if _, err := engine.CreateAccount(ctx, CreateAccountRequest{Email: "bob@example.com"}); !errors.Is(err, ErrArgument) {
		t.Fatalf("expected ErrArgument for empty password, got %v", err)
	}
}

func TestChangeEmailRequiresSession(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, _, _ := newTestEngine(t, store)

	if _, err := engine.ChangeEmail(context.Background(), "new@example.com"); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestChangeEmailRefreshesSession(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	oldStamp := login(t, engine, transport)

	result, err := engine.ChangeEmail(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("ChangeEmail failed: %v", err)
	}
	if !result.Succeeded() {
		t.Fatal("expected email change to succeed")
	}

	fresh := store.accounts[1]
	if fresh.Email != "new@example.com" {
		t.Fatalf("expected store email updated, got %q", fresh.Email)
	}
	if fresh.EmailVerified {
		t.Fatal("expected verified flag cleared on address change")
	}
	if fresh.SecurityStamp == oldStamp {
		t.Fatal("expected the security stamp to rotate")
	}

	ticket := transport.ticket(SchemeApplication)
	if got, _ := ticket.Assertion.First(claims.TypeUsername); got != "new@example.com" {
		t.Fatalf("expected session username reconciled, got %q", got)
	}
	if sessionStamp(t, transport) != fresh.SecurityStamp {
		t.Fatal("expected session stamp reconciled with the store")
	}
}

func TestChangeEmailConflict(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	login(t, engine, transport)

	store.conflictNext = true
	result, err := engine.ChangeEmail(context.Background(), "taken@example.com")
	if err != nil {
		t.Fatalf("ChangeEmail failed: %v", err)
	}
	if !result.InUse() {
		t.Fatal("expected InUse on a store conflict")
	}
	if store.accounts[1].Email != "alice@example.com" {
		t.Fatal("expected store email untouched on conflict")
	}
}

func TestChangeAlternativeEmail(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	oldStamp := login(t, engine, transport)

	result, err := engine.ChangeAlternativeEmail(context.Background(), "backup@example.com")
	if err != nil {
		t.Fatalf("ChangeAlternativeEmail failed: %v", err)
	}
	if !result.Succeeded() {
		t.Fatal("expected alternative email change to succeed")
	}

	fresh := store.accounts[1]
	if fresh.AlternativeEmail != "backup@example.com" || fresh.AlternativeEmailVerified {
		t.Fatalf("expected unverified alternative address, got %+v", fresh)
	}
	if fresh.SecurityStamp == oldStamp {
		t.Fatal("expected the security stamp to rotate")
	}
	if sessionStamp(t, transport) != fresh.SecurityStamp {
		t.Fatal("expected session stamp reconciled with the store")
	}
}

func TestChangeDisplayName(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	oldStamp := login(t, engine, transport)

	result, err := engine.ChangeDisplayName(context.Background(), "Alice B")
	if err != nil {
		t.Fatalf("ChangeDisplayName failed: %v", err)
	}
	if !result.Succeeded() {
		t.Fatal("expected display name change to succeed")
	}
	if store.accounts[1].DisplayName != "Alice B" {
		t.Fatalf("expected store display name updated, got %q", store.accounts[1].DisplayName)
	}
	// Display names are not security sensitive; the stamp must not move.
	if store.accounts[1].SecurityStamp != oldStamp {
		t.Fatal("expected the security stamp to stay put")
	}
}

func TestChangeDisplayNameConflict(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	login(t, engine, transport)

	store.conflictNext = true
	result, err := engine.ChangeDisplayName(context.Background(), "Taken")
	if err != nil {
		t.Fatalf("ChangeDisplayName failed: %v", err)
	}
	if !result.InUse() {
		t.Fatal("expected InUse on a store conflict")
	}
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	login(t, engine, transport)

	result, err := engine.ChangePassword(context.Background(), "wrong", "new password 9")
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if !result.InvalidPassword() {
		t.Fatal("expected InvalidPassword for a wrong current password")
	}
}

func TestChangePasswordRejectsReuse(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	login(t, engine, transport)

	result, err := engine.ChangePassword(context.Background(), "correct horse", "correct horse")
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if !result.SamePassword() {
		t.Fatal("expected SamePassword when reusing the current password")
	}
	if store.updatePasswordCalls != 0 {
		t.Fatal("expected no write for a rejected reuse")
	}
}

func TestChangePasswordSuccess(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	oldStamp := login(t, engine, transport)

	result, err := engine.ChangePassword(context.Background(), "correct horse", "battery staple")
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if !result.Succeeded() {
		t.Fatal("expected password change to succeed")
	}

	fresh := store.accounts[1]
	if !newTestHasher(t, 10000).Verify(fresh.PasswordHash, "battery staple") {
		t.Fatal("expected the new hash to verify the new password")
	}
	if fresh.SecurityStamp == oldStamp {
		t.Fatal("expected the security stamp to rotate")
	}
	if sessionStamp(t, transport) != fresh.SecurityStamp {
		t.Fatal("expected the caller's session reconciled with the new stamp")
	}
}

func TestChangePasswordConflictSurfacesError(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	login(t, engine, transport)

	store.conflictNext = true
	if _, err := engine.ChangePassword(context.Background(), "correct horse", "battery staple"); !errors.Is(err, ErrUpdateFailed) {
		t.Fatalf("expected ErrUpdateFailed on conflict, got %v", err)
	}
}

func TestSetTwoFactorEnabled(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	oldStamp := login(t, engine, transport)

	if err := engine.SetTwoFactorEnabled(context.Background(), true); err != nil {
		t.Fatalf("SetTwoFactorEnabled failed: %v", err)
	}

	fresh := store.accounts[1]
	if !fresh.TwoFactorEnabled {
		t.Fatal("expected two-factor to be enabled")
	}
	if fresh.SecurityStamp == oldStamp {
		t.Fatal("expected the security stamp to rotate")
	}
	if sessionStamp(t, transport) != fresh.SecurityStamp {
		t.Fatal("expected the caller's session reconciled with the new stamp")
	}
}

func TestSetTwoFactorEnabledRequiresSession(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, _, _ := newTestEngine(t, store)

	if err := engine.SetTwoFactorEnabled(context.Background(), true); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
