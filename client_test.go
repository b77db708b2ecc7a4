package tdx

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/samarthkathal/tdx-go/codec"
	"github.com/samarthkathal/tdx-go/proto"
	"github.com/stretchr/testify/require"
)

// readRequestFrame reads one request frame off conn and returns its msgID,
// msgType, and payload, mirroring frame.EncodeRequest's layout.
func readRequestFrame(t *testing.T, conn net.Conn) (uint32, uint16, []byte) {
	t.Helper()
	header := make([]byte, 12)
	_, err := io.ReadFull(conn, header)
	require.NoError(t, err)
	require.Equal(t, byte(0x0C), header[0])

	msgID := codec.U32LE(header[1:5])
	length := codec.U16LE(header[6:8])
	msgType := codec.U16LE(header[10:12])

	payload := make([]byte, int(length)-2)
	_, err = io.ReadFull(conn, payload)
	require.NoError(t, err)

	return msgID, msgType, payload
}

// writeResponseFrame writes one uncompressed response frame to conn.
func writeResponseFrame(t *testing.T, conn net.Conn, msgID uint32, msgType uint16, payload []byte) {
	t.Helper()
	var out []byte
	out = append(out, 0xB1, 0xCB, 0x74, 0x00)
	out = append(out, 0x10)
	out = codec.PutU32LE(out, msgID)
	out = append(out, 0x00)
	out = codec.PutU16LE(out, msgType)
	out = codec.PutU16LE(out, uint16(len(payload)))
	out = codec.PutU16LE(out, uint16(len(payload)))
	out = append(out, payload...)
	_, err := conn.Write(out)
	require.NoError(t, err)
}

// startFakeServer listens on loopback and runs handle for exactly one
// accepted connection, always answering the handshake first.
func startFakeServer(t *testing.T, handle func(conn net.Conn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		msgID, msgType, _ := readRequestFrame(t, conn)
		require.Equal(t, uint32(1), msgID)
		require.Equal(t, uint16(proto.Connect), msgType)
		writeResponseFrame(t, conn, msgID, msgType, make([]byte, 68))

		if handle != nil {
			handle(conn)
		}
	}()

	return ln.Addr().String()
}

func TestDialAndGetCount(t *testing.T) {
	addr := startFakeServer(t, func(conn net.Conn) {
		msgID, msgType, _ := readRequestFrame(t, conn)
		require.Equal(t, uint16(proto.Count), msgType)
		writeResponseFrame(t, conn, msgID, msgType, codec.PutU16LE(nil, 4567))
	})

	conn, err := Dial(addr, WithTimeout(2*time.Second))
	require.NoError(t, err)
	defer conn.Close()

	count, err := conn.GetCount(proto.SZ)
	require.NoError(t, err)
	require.Equal(t, uint16(4567), count)
}

func TestDialCorrelationMismatch(t *testing.T) {
	addr := startFakeServer(t, func(conn net.Conn) {
		_, msgType, _ := readRequestFrame(t, conn)
		// Respond with a deliberately wrong msgID.
		writeResponseFrame(t, conn, 999, msgType, codec.PutU16LE(nil, 1))
	})

	conn, err := Dial(addr, WithTimeout(2*time.Second))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.GetCount(proto.SZ)
	require.Error(t, err)
	require.True(t, IsCorrelationMismatch(err))
}

func TestConnectionCloseRejectsFurtherCalls(t *testing.T) {
	addr := startFakeServer(t, nil)

	conn, err := Dial(addr, WithTimeout(2*time.Second))
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	_, err = conn.GetCount(proto.SZ)
	require.ErrorIs(t, err, ErrConnectionClosed)
}

func TestDialUnreachableHostFails(t *testing.T) {
	_, err := Dial("127.0.0.1:1", WithTimeout(200*time.Millisecond))
	require.Error(t, err)
}
