package frame

import (
	"bytes"
	"compress/zlib"
	"testing"

	"github.com/samarthkathal/tdx-go/codec"
	"github.com/stretchr/testify/require"
)

func buildResponseFrame(t *testing.T, msgID uint32, msgType uint16, control byte, payload []byte, compress bool) []byte {
	t.Helper()

	raw := payload
	if compress {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		_, err := zw.Write(payload)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		raw = buf.Bytes()
	}

	var out []byte
	out = append(out, 0xB1, 0xCB, 0x74, 0x00)
	out = append(out, control)
	out = codec.PutU32LE(out, msgID)
	out = append(out, 0x00) // reserved
	out = codec.PutU16LE(out, msgType)
	out = codec.PutU16LE(out, uint16(len(raw)))
	out = codec.PutU16LE(out, uint16(len(payload)))
	out = append(out, raw...)
	return out
}

func TestDecodeResponseUncompressed(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	wire := buildResponseFrame(t, 7, 0x044E, 0x10, payload, false)

	resp, err := DecodeResponse(bytes.NewReader(wire))
	require.NoError(t, err)
	require.Equal(t, uint32(7), resp.MsgID)
	require.Equal(t, uint16(0x044E), resp.MsgType)
	require.True(t, resp.IsSuccess())
	require.Equal(t, payload, resp.Payload)
}

func TestDecodeResponseCompressed(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 200)
	wire := buildResponseFrame(t, 9, 0x052D, 0x10, payload, true)

	resp, err := DecodeResponse(bytes.NewReader(wire))
	require.NoError(t, err)
	require.Equal(t, payload, resp.Payload)
}

func TestDecodeResponseBadPrefix(t *testing.T) {
	wire := []byte{0, 0, 0, 0, 0x10, 1, 0, 0, 0, 0, 0x4E, 0x04, 0, 0, 0, 0}
	_, err := DecodeResponse(bytes.NewReader(wire))
	require.Error(t, err)
}
