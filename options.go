package miniapp

import (
	"log/slog"

	"github.com/wagiedev/miniapp-sdk-go/internal/config"
)

// Option configures host messengers and connection managers using the
// functional options pattern.
type Option func(*config.Options)

// applyOptions applies functional options to a fresh config.Options.
func applyOptions(opts []Option) *config.Options {
	options := &config.Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *config.Options) {
		o.Logger = logger
	}
}

// WithDialect selects the wire dialect. Both sides of a channel must use
// the same one. Defaults to DialectFlat.
func WithDialect(d *Dialect) Option {
	return func(o *config.Options) {
		o.Dialect = d
	}
}

// WithDialectName selects the wire dialect by name. Accepted names are
// "flat" and "namespaced" and their aliases; an unknown name leaves the
// dialect unchanged.
func WithDialectName(name string) Option {
	return func(o *config.Options) {
		if d := config.ResolveDialect(name); d != nil {
			o.Dialect = d
		}
	}
}

// WithErrorHandler receives failures that happen while reacting to boundary
// events and therefore have no caller, such as a failed port transfer.
func WithErrorHandler(fn func(error)) Option {
	return func(o *config.Options) {
		o.ErrorHandler = fn
	}
}

// WithHandshakePayload supplies the snapshot a host sends in reply to the
// client handshake. Only dialects that echo the handshake use it.
func WithHandshakePayload(fn func() HandshakePayload) Option {
	return func(o *config.Options) {
		o.HandshakePayload = fn
	}
}
