package tdx

import (
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/samarthkathal/tdx-go/metrics"
	"github.com/samarthkathal/tdx-go/middleware"
)

// defaultTimeout is the per-call read/write deadline when none is configured.
const defaultTimeout = 10 * time.Second

// defaultPort is appended to a bare host with no explicit port.
const defaultPort = "7709"

// Option configures a Connection at dial time, the teacher's dominant
// configuration idiom (rest.Option, marketfeed.Option) generalized from
// WebSocket/REST clients to this protocol's single TCP connection.
type Option func(*Connection)

// WithLogger attaches a zerolog logger; each request/response round logs at
// debug level when set. The default is a disabled (Nop) logger, so a caller
// that never configures one gets silence, not stdout noise.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Connection) {
		c.logger = logger
	}
}

// WithTimeout overrides the default 10s read/write deadline applied to every
// request/response round.
func WithTimeout(d time.Duration) Option {
	return func(c *Connection) {
		c.timeout = d
	}
}

// WithDialer supplies a custom *net.Dialer (connect timeout, keep-alive),
// generalizing the teacher's HTTPClientConfig dial tuning from an
// http.Transport to a raw TCP dial.
func WithDialer(d *net.Dialer) Option {
	return func(c *Connection) {
		c.dialer = d
	}
}

// WithMetrics attaches a call counter collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Connection) {
		c.metrics = collector
	}
}

// WithCallMiddleware inserts additional wrappers around the request/response
// cycle, ahead of the built-in logging/recovery wrappers, mirroring the
// teacher's WithMiddleware option for composing extra RoundTrippers.
func WithCallMiddleware(wrappers ...func(middleware.Call) middleware.Call) Option {
	return func(c *Connection) {
		c.extraMiddleware = append(c.extraMiddleware, wrappers...)
	}
}

func defaultDialer() *net.Dialer {
	return &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
}
