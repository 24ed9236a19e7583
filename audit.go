package accountcore

import (
	"io"

	"github.com/halcyonweb/accountcore/internal/audit"
)

// Root-level aliases so integrators implement sinks without importing
// internal packages.

// AuditEvent defines a public type used by accountcore APIs.
type AuditEvent = audit.Event

// AuditSink defines a public type used by accountcore APIs.
type AuditSink = audit.Sink

// NoOpSink defines a public type used by accountcore APIs.
type NoOpSink = audit.NoOpSink

// ChannelSink defines a public type used by accountcore APIs.
type ChannelSink = audit.ChannelSink

// JSONWriterSink defines a public type used by accountcore APIs.
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink describes the newchannelsink operation and its observable behavior.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink describes the newjsonwritersink operation and its observable behavior.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
