package proto

import "github.com/samarthkathal/tdx-go/codec"

// EncodeCountRequest builds the Count request payload for one exchange.
func EncodeCountRequest(exchange Exchange) []byte {
	return []byte{byte(exchange), 0x00, 0x75, 0xC7, 0x33, 0x01}
}

// DecodeCountResponse decodes a Count response into the reported stock count.
func DecodeCountResponse(data []byte) (uint16, error) {
	if len(data) < 2 {
		return 0, newShortRead(len(data), 2)
	}
	return codec.U16LE(data), nil
}
