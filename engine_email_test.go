package accountcore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRequestEmailConfirmationRequiresSession(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, _, _ := newTestEngine(t, store)

	if err := engine.RequestEmailConfirmation(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestConfirmEmailFlow(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, email := newTestEngine(t, store)
	ctx := context.Background()
	login(t, engine, transport)

	if err := engine.RequestEmailConfirmation(ctx); err != nil {
		t.Fatalf("RequestEmailConfirmation failed: %v", err)
	}
	msg := email.last(t)
	if msg.To != "alice@example.com" {
		t.Fatalf("expected confirmation mailed to the primary address, got %q", msg.To)
	}
	if msg.Subject != "Confirm your email" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	tok := tokenFromBody(t, msg.Body)

	result, err := engine.ConfirmEmail(ctx, tok)
	if err != nil {
		t.Fatalf("ConfirmEmail failed: %v", err)
	}
	if !result.Succeeded() {
		t.Fatal("expected confirmation to succeed")
	}
	if !store.accounts[1].EmailVerified {
		t.Fatal("expected the primary address to be marked verified")
	}
	if sessionStamp(t, transport) != store.accounts[1].SecurityStamp {
		t.Fatal("expected the caller's session reconciled with the rotated stamp")
	}

	// The verification rotated the stamp, so the token is spent.
	replay, err := engine.ConfirmEmail(ctx, tok)
	if err != nil {
		t.Fatalf("ConfirmEmail replay failed: %v", err)
	}
	if !replay.InvalidToken() {
		t.Fatal("expected a replayed token to be invalid")
	}
}

func TestConfirmEmailWithoutSession(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, _, _ := newTestEngine(t, store)

	result, err := engine.ConfirmEmail(context.Background(), "whatever")
	if err != nil {
		t.Fatalf("ConfirmEmail failed: %v", err)
	}
	if !result.NotLoggedIn() {
		t.Fatal("expected NotLoggedIn without a session")
	}
}

func TestConfirmEmailGarbageToken(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	ctx := context.Background()
	login(t, engine, transport)

	result, err := engine.ConfirmEmail(ctx, "definitely not a token")
	if err != nil {
		t.Fatalf("ConfirmEmail failed: %v", err)
	}
	if !result.InvalidToken() {
		t.Fatal("expected InvalidToken for garbage input")
	}
	if store.accounts[1].EmailVerified {
		t.Fatal("expected the verified flag untouched")
	}
}

func TestConfirmEmailExpiredToken(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	cfg := defaultConfig()
	cfg.Token.Lifespan = time.Nanosecond
	engine, transport, email := newTestEngineWithConfig(t, store, cfg)
	ctx := context.Background()
	login(t, engine, transport)

	if err := engine.RequestEmailConfirmation(ctx); err != nil {
		t.Fatalf("RequestEmailConfirmation failed: %v", err)
	}
	tok := tokenFromBody(t, email.last(t).Body)

	result, err := engine.ConfirmEmail(ctx, tok)
	if err != nil {
		t.Fatalf("ConfirmEmail failed: %v", err)
	}
	if !result.ExpiredToken() {
		t.Fatal("expected ExpiredToken for a token past its lifespan")
	}
}

func TestConfirmEmailRejectsCrossPurposeToken(t *testing.T) {
	store := newFakeAccountStore()
	account := seedAccount(t, store)
	store.accounts[account.AccountID].AlternativeEmail = "backup@example.com"
	engine, transport, email := newTestEngine(t, store)
	ctx := context.Background()
	login(t, engine, transport)

	if err := engine.RequestAlternativeEmailConfirmation(ctx); err != nil {
		t.Fatalf("RequestAlternativeEmailConfirmation failed: %v", err)
	}
	tok := tokenFromBody(t, email.last(t).Body)

	// A token minted for the alternative address must not confirm the
	// primary one.
	result, err := engine.ConfirmEmail(ctx, tok)
	if err != nil {
		t.Fatalf("ConfirmEmail failed: %v", err)
	}
	if !result.InvalidToken() {
		t.Fatal("expected a cross-purpose token to be invalid")
	}
}

func TestConfirmAlternativeEmailFlow(t *testing.T) {
	store := newFakeAccountStore()
	account := seedAccount(t, store)
	store.accounts[account.AccountID].AlternativeEmail = "backup@example.com"
	engine, transport, email := newTestEngine(t, store)
	ctx := context.Background()
	login(t, engine, transport)

	if err := engine.RequestAlternativeEmailConfirmation(ctx); err != nil {
		t.Fatalf("RequestAlternativeEmailConfirmation failed: %v", err)
	}
	msg := email.last(t)
	if msg.To != "backup@example.com" {
		t.Fatalf("expected confirmation mailed to the alternative address, got %q", msg.To)
	}

	result, err := engine.ConfirmAlternativeEmail(ctx, tokenFromBody(t, msg.Body))
	if err != nil {
		t.Fatalf("ConfirmAlternativeEmail failed: %v", err)
	}
	if !result.Succeeded() {
		t.Fatal("expected alternative confirmation to succeed")
	}
	if !store.accounts[1].AlternativeEmailVerified {
		t.Fatal("expected the alternative address to be marked verified")
	}
}

func TestRequestAlternativeEmailConfirmationWithoutAddress(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	engine, transport, _ := newTestEngine(t, store)
	login(t, engine, transport)

	if err := engine.RequestAlternativeEmailConfirmation(context.Background()); !errors.Is(err, ErrArgument) {
		t.Fatalf("expected ErrArgument without an alternative address, got %v", err)
	}
}

func TestConfirmationMailCarriesLink(t *testing.T) {
	store := newFakeAccountStore()
	seedAccount(t, store)
	cfg := defaultConfig()
	cfg.Mail.LinkBaseURL = "https://example.com/confirm"
	engine, transport, email := newTestEngineWithConfig(t, store, cfg)
	ctx := context.Background()
	login(t, engine, transport)

	if err := engine.RequestEmailConfirmation(ctx); err != nil {
		t.Fatalf("RequestEmailConfirmation failed: %v", err)
	}
	body := email.last(t).Body
	if !strings.Contains(body, "https://example.com/confirm?token=") {
		t.Fatalf("expected a link with a token parameter, got %q", body)
	}
}
