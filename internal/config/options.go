// Package config provides configuration types for the mini app SDK.
package config

import (
	"io"
	"log/slog"

	"github.com/wagiedev/miniapp-sdk-go/internal/message"
)

// Options configures host messengers and client connection managers.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Dialect selects the wire protocol version.
	// If nil, message.DialectFlat is used.
	Dialect *message.Dialect

	// ErrorHandler receives failures that happen while reacting to boundary
	// events, such as a host failing to transfer a channel port. Those
	// failures have no caller to return to.
	// If nil, they are only logged.
	ErrorHandler func(error)

	// HandshakePayload supplies the host handshake sent in reply to a client
	// handshake when the dialect echoes handshakes.
	// If nil, the host handshake is sent without a payload.
	HandshakePayload func() message.HandshakePayload
}

// Normalize returns a copy of o with defaults filled in. A nil receiver
// yields the defaults.
func (o *Options) Normalize() *Options {
	out := &Options{}
	if o != nil {
		*out = *o
	}

	if out.Logger == nil {
		out.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if out.Dialect == nil {
		out.Dialect = message.DialectFlat
	}

	return out
}

// ReportError forwards err to the configured ErrorHandler, if any.
func (o *Options) ReportError(err error) {
	if o.ErrorHandler != nil {
		o.ErrorHandler(err)
	}
}
