package tdx

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// startBareListener accepts and immediately closes every connection, enough
// to make a bare TCP dial (as FastHosts performs) succeed.
func startBareListener(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	return ln.Addr().String()
}

func TestDialHostsRangeSkipsFailuresAndSucceeds(t *testing.T) {
	addr := startFakeServer(t, nil)

	conn, err := DialHostsRange([]string{"127.0.0.1:1", addr}, WithTimeout(2*time.Second))
	require.NoError(t, err)
	defer conn.Close()
}

func TestDialHostsRangeAllFail(t *testing.T) {
	_, err := DialHostsRange([]string{"127.0.0.1:1", "127.0.0.1:2"}, WithTimeout(100*time.Millisecond))
	require.Error(t, err)
}

func TestDefaultHostsHasHostForRandomFallback(t *testing.T) {
	// DialHostsRandom falls back to DefaultHosts on an empty slice. Dialing
	// those hosts needs network, so this only checks that the fallback list
	// has a host to pick; DialHostsRandom itself is not called.
	host := DefaultHosts[0]
	require.NotEmpty(t, host)
}

func TestFastHostsDropsUnreachable(t *testing.T) {
	addr := startBareListener(t)

	results := FastHosts(context.Background(), []string{"127.0.0.1:1", addr})
	require.Len(t, results, 1)
	require.Equal(t, addr, results[0].Host)
}

func TestFastHostsSortsByLatency(t *testing.T) {
	addrA := startBareListener(t)
	addrB := startBareListener(t)

	results := FastHosts(context.Background(), []string{addrA, addrB})
	require.Len(t, results, 2)
	for i := 1; i < len(results); i++ {
		require.LessOrEqual(t, results[i-1].Latency, results[i].Latency)
	}
}
