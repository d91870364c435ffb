package client

import (
	"crypto/tls"
	"time"

	"github.com/rs/zerolog"
)

// Option is a functional option for configuring the client, the same
// pattern the teacher's client/options.go used.
type Option func(*Options)

// Options holds all client configuration.
type Options struct {
	// TLSConfig holds a TLS configuration alongside the other options. The
	// client itself does not read it: DialTLS takes its configuration as an
	// argument, and command.StartTLS leaves the TLS handshake to the caller.
	TLSConfig *tls.Config

	// Logger is the structured logger commands and connection lifecycle
	// events are written to.
	Logger zerolog.Logger

	// CommandTimeout bounds how long New waits for the server greeting
	// before failing with a stream error (30s when zero or negative).
	// Commands run through Execute are not timed out.
	CommandTimeout time.Duration

	// Events, if set, receives the client's lifecycle and protocol
	// notifications. A nil bus means no one is listening; events are then
	// computed and discarded rather than skipped, so wiring one up later
	// isn't required for correctness.
	Events *EventBus

	// TagPrefix overrides the default "A" tag prefix.
	TagPrefix string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Logger:         zerolog.Nop(),
		CommandTimeout: 5 * time.Minute,
		TagPrefix:      "A",
	}
}

// WithTLSConfig sets the TLS configuration.
func WithTLSConfig(config *tls.Config) Option {
	return func(o *Options) { o.TLSConfig = config }
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithCommandTimeout sets how long New waits for the server greeting.
func WithCommandTimeout(d time.Duration) Option {
	return func(o *Options) { o.CommandTimeout = d }
}

// WithEventBus attaches an EventBus the client publishes to.
func WithEventBus(bus *EventBus) Option {
	return func(o *Options) { o.Events = bus }
}

// WithTagPrefix overrides the tag prefix (default "A").
func WithTagPrefix(prefix string) Option {
	return func(o *Options) { o.TagPrefix = prefix }
}
