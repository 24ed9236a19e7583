package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// TicketID identifies one stored session ticket. 128 random bits, carried
// as compact unpadded base64url.
type TicketID [16]byte

// NewTicketID describes the newticketid operation and its observable behavior.
func NewTicketID() (TicketID, error) {
	var id TicketID
	_, err := rand.Read(id[:])
	return id, err
}

// String describes the string operation and its observable behavior.
func (t TicketID) String() string {
	return base64.RawURLEncoding.EncodeToString(t[:])
}

// ParseTicketID describes the parseticketid operation and its observable behavior.
func ParseTicketID(s string) (TicketID, error) {
	var id TicketID

	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return id, err
	}
	if len(raw) != len(id) {
		return id, errors.New("invalid ticket id size")
	}

	copy(id[:], raw)
	return id, nil
}
