package tdx

import (
	"context"
	"math/rand"
	"net"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultHosts is the built-in pool of public TDX servers used when a caller
// doesn't supply its own host list.
var DefaultHosts = []string{
	"124.71.187.122",
	"122.51.120.217",
	"111.229.247.189",
	"124.70.176.52",
	"123.60.186.45",
	"122.51.232.182",
	"118.25.98.114",
	"124.70.199.56",
	"121.36.225.169",
	"123.60.70.228",
	"123.60.73.44",
	"124.70.133.119",
}

// retryPause is the wait between failed attempts in DialHostsRange, matching
// the reference's fixed 2-second backoff.
const retryPause = 2 * time.Second

// DialDefault dials DefaultHosts in order, returning the first successful
// connection.
func DialDefault(opts ...Option) (*Connection, error) {
	return DialHostsRange(DefaultHosts, opts...)
}

// DialHostsRange tries each host in order, pausing retryPause between failed
// attempts, and returns the first successful connection. An empty hosts
// falls back to DefaultHosts.
func DialHostsRange(hosts []string, opts ...Option) (*Connection, error) {
	if len(hosts) == 0 {
		hosts = DefaultHosts
	}

	var lastErr error
	for i, host := range hosts {
		conn, err := Dial(host, opts...)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if i < len(hosts)-1 {
			time.Sleep(retryPause)
		}
	}
	if lastErr == nil {
		lastErr = ErrNoHosts
	}
	return nil, lastErr
}

// DialHostsRandom dials a uniformly random host from hosts (or DefaultHosts
// if empty) and returns the resulting connection or dial error, without
// trying any other host on failure.
func DialHostsRandom(hosts []string, opts ...Option) (*Connection, error) {
	if len(hosts) == 0 {
		hosts = DefaultHosts
	}
	host := hosts[rand.Intn(len(hosts))]
	return Dial(host, opts...)
}

// HostLatency is one probe's result from FastHosts.
type HostLatency struct {
	Host    string
	Latency time.Duration
}

// FastHosts probes every host in hosts (or DefaultHosts if empty)
// concurrently with a bare TCP dial, silently dropping hosts that fail to
// connect, and returns the survivors sorted by ascending latency.
func FastHosts(ctx context.Context, hosts []string) []HostLatency {
	if len(hosts) == 0 {
		hosts = DefaultHosts
	}

	results := make([]HostLatency, len(hosts))
	ok := make([]bool, len(hosts))

	g, gctx := errgroup.WithContext(ctx)
	for i, host := range hosts {
		i, host := i, host
		g.Go(func() error {
			start := time.Now()
			dialer := defaultDialer()
			addr := host
			if _, _, err := net.SplitHostPort(host); err != nil {
				addr = net.JoinHostPort(host, defaultPort)
			}
			conn, err := dialer.DialContext(gctx, "tcp", addr)
			if err != nil {
				return nil // probe failures are dropped, not fatal to the group
			}
			_ = conn.Close()
			results[i] = HostLatency{Host: host, Latency: time.Since(start)}
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait() // no probe returns an error, so Wait always returns nil

	survivors := make([]HostLatency, 0, len(hosts))
	for i, v := range ok {
		if v {
			survivors = append(survivors, results[i])
		}
	}
	sort.Slice(survivors, func(i, j int) bool {
		return survivors[i].Latency < survivors[j].Latency
	})
	return survivors
}
