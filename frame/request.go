// Package frame implements the TDX request/response framing layer: assembling
// a request frame around a message payload, and parsing + decompressing a
// response frame into its payload bytes.
package frame

import "github.com/samarthkathal/tdx-go/codec"

const (
	// requestPrefix is the single fixed byte every request frame opens with.
	requestPrefix byte = 0x0C
	// control01 is the only control byte value this protocol's requests use.
	control01 byte = 0x01
)

// EncodeRequest assembles a request frame: prefix, msgID, control byte, the
// declared length (payload length + 2, repeated twice), msgType, then the
// payload itself.
func EncodeRequest(msgID uint32, msgType uint16, payload []byte) []byte {
	length := uint16(len(payload) + 2)

	w := codec.NewWriter()
	w.PutByte(requestPrefix)
	w.PutU32(msgID)
	w.PutByte(control01)
	w.PutU16(length)
	w.PutU16(length)
	w.PutU16(msgType)
	w.PutBytes(payload)
	return w.Bytes()
}
