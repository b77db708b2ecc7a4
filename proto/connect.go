package proto

import "github.com/samarthkathal/tdx-go/codec"

// ConnectPayload is the single fixed payload byte of the handshake request.
var ConnectPayload = []byte{0x01}

// DecodeConnectResponse decodes the handshake response: 68 bytes of
// server-identifying metadata (not interpreted) followed by a GBK-encoded
// banner string.
func DecodeConnectResponse(data []byte) (string, error) {
	if len(data) < 68 {
		return "", newShortRead(len(data), 68)
	}
	return codec.GBKToUTF8(data[68:]), nil
}
