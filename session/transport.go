package session

import (
	"context"
	"errors"
	"time"

	"github.com/halcyonweb/accountcore/internal"
)

// Carrier moves ticket ids between the client and one request. The web
// layer implements it over cookies; tests use an in-memory map.
type Carrier interface {
	TicketID(scheme string) (string, bool)
	SetTicketID(scheme, ticketID string)
	ClearTicketID(scheme string)
}

// Transport binds a Store to a per-request Carrier, yielding the
// get/issue/clear surface the orchestrator consumes. One Transport serves
// one request; the Store behind it is shared.
type Transport struct {
	store   *Store
	carrier Carrier
	ttl     time.Duration
}

// NewTransport describes the newtransport operation and its observable behavior.
//
// NewTransport may return an error when input validation, dependency calls, or security checks fail.
func NewTransport(store *Store, carrier Carrier, ttl time.Duration) (*Transport, error) {
	if store == nil || carrier == nil {
		return nil, errors.New("transport requires store and carrier")
	}
	if ttl <= 0 {
		return nil, errors.New("transport ttl must be > 0")
	}
	return &Transport{store: store, carrier: carrier, ttl: ttl}, nil
}

// Get returns the live ticket for the scheme, or nil when the request
// carries none. A carried id whose ticket has expired counts as none, and
// the stale id is dropped from the carrier.
func (t *Transport) Get(ctx context.Context, scheme string) (*Ticket, error) {
	id, ok := t.carrier.TicketID(scheme)
	if !ok || id == "" {
		return nil, nil
	}
	ticket, err := t.store.Load(ctx, scheme, id)
	if errors.Is(err, ErrTicketNotFound) {
		t.carrier.ClearTicketID(scheme)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// Issue stores the ticket under a fresh id and hands the id to the
// carrier, replacing any ticket previously issued for the scheme.
func (t *Transport) Issue(ctx context.Context, scheme string, ticket *Ticket) error {
	if old, ok := t.carrier.TicketID(scheme); ok && old != "" {
		if err := t.store.Delete(ctx, scheme, old); err != nil {
			return err
		}
	}

	id, err := internal.NewTicketID()
	if err != nil {
		return err
	}
	if err := t.store.Save(ctx, scheme, id.String(), ticket, t.ttl); err != nil {
		return err
	}
	t.carrier.SetTicketID(scheme, id.String())
	return nil
}

// Clear drops the scheme's ticket from both the store and the carrier.
func (t *Transport) Clear(ctx context.Context, scheme string) error {
	id, ok := t.carrier.TicketID(scheme)
	t.carrier.ClearTicketID(scheme)
	if !ok || id == "" {
		return nil
	}
	return t.store.Delete(ctx, scheme, id)
}
