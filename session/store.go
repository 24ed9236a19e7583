package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/halcyonweb/accountcore/claims"
)

// ErrTicketNotFound is an exported constant or variable used by the account-security core.
var ErrTicketNotFound = errors.New("session ticket not found")

// Store persists tickets server-side in redis, keyed by (scheme, ticket
// id). Tickets for an account are tracked in a per-account index set so a
// security-sensitive change can sweep every live session at once.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore describes the newstore operation and its observable behavior.
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "ac"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) ticketKey(scheme, ticketID string) string {
	return fmt.Sprintf("%s:t:%s:%s", s.prefix, scheme, ticketID)
}

func (s *Store) accountKey(scheme string, accountID int64) string {
	return fmt.Sprintf("%s:a:%s:%s", s.prefix, scheme, strconv.FormatInt(accountID, 10))
}

// Save writes the ticket with the given TTL and indexes it under the
// account named by the assertion's account id claim, when present.
func (s *Store) Save(ctx context.Context, scheme, ticketID string, t *Ticket, ttl time.Duration) error {
	if scheme == "" || ticketID == "" || t == nil || t.Assertion == nil {
		return errors.New("invalid ticket")
	}
	if ttl <= 0 {
		return errors.New("ticket ttl must be > 0")
	}

	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.ticketKey(scheme, ticketID), data, ttl)
	if accountID, ok := claims.ExtractAccountID(t.Assertion, scheme); ok {
		key := s.accountKey(scheme, accountID)
		pipe.SAdd(ctx, key, ticketID)
		pipe.Expire(ctx, key, ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Load fetches a ticket, returning ErrTicketNotFound for missing or
// expired ids.
func (s *Store) Load(ctx context.Context, scheme, ticketID string) (*Ticket, error) {
	data, err := s.client.Get(ctx, s.ticketKey(scheme, ticketID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}

	var t Ticket
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("corrupt ticket: %w", err)
	}
	return &t, nil
}

// Delete removes one ticket. Deleting an absent ticket is not an error.
func (s *Store) Delete(ctx context.Context, scheme, ticketID string) error {
	return s.client.Del(ctx, s.ticketKey(scheme, ticketID)).Err()
}

// DeleteAllForAccount removes every indexed ticket an account holds under
// the scheme.
func (s *Store) DeleteAllForAccount(ctx context.Context, scheme string, accountID int64) error {
	key := s.accountKey(scheme, accountID)
	ids, err := s.client.SMembers(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.ticketKey(scheme, id))
	}
	pipe.Del(ctx, key)
	_, err = pipe.Exec(ctx)
	return err
}
