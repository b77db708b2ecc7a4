package frame

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/samarthkathal/tdx-go/codec"
	"github.com/samarthkathal/tdx-go/pool"
)

// responsePrefix is the response frame's 4-byte prefix as it appears on the
// wire: big-endian, unlike every other multi-byte field in this protocol.
const responsePrefix uint32 = 0xB1CB7400

// FrameError reports a framing-level failure: bad prefix, a length-field
// mismatch, or a decompression failure. It carries enough detail for the
// caller to classify it as KindProtocolFraming.
type FrameError struct {
	Reason string
}

func (e *FrameError) Error() string { return "frame: " + e.Reason }

// Response is a parsed, decompressed response frame ready for message decoding.
type Response struct {
	MsgID   uint32
	MsgType uint16
	Control byte
	Payload []byte
}

// IsSuccess reports whether the control byte's success bit (bit 4) is set.
func (r *Response) IsSuccess() bool {
	return r.Control&0x10 == 0x10
}

// DecodeResponse reads one full response frame from r: a 16-byte header
// followed by zipLength bytes of payload, inflating the payload with zlib
// when zipLength != length and verifying the inflated size matches length
// exactly.
func DecodeResponse(r io.Reader) (*Response, error) {
	header := make([]byte, 16)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("read response header: %w", err)
	}

	prefix := uint32(header[0])<<24 | uint32(header[1])<<16 | uint32(header[2])<<8 | uint32(header[3])
	if prefix != responsePrefix {
		return nil, &FrameError{Reason: fmt.Sprintf("bad response prefix 0x%08x", prefix)}
	}

	control := header[4]
	msgID := codec.U32LE(header[5:9])
	// header[9] is reserved and ignored.
	msgType := codec.U16LE(header[10:12])
	zipLength := codec.U16LE(header[12:14])
	length := codec.U16LE(header[14:16])

	raw := pool.Get(int(zipLength))
	defer pool.Put(raw)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read response payload: %w", err)
	}

	var payload []byte
	if zipLength != length {
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, &FrameError{Reason: fmt.Sprintf("zlib init: %v", err)}
		}
		defer zr.Close()

		inflated, err := io.ReadAll(zr)
		if err != nil {
			return nil, &FrameError{Reason: fmt.Sprintf("zlib inflate: %v", err)}
		}
		payload = inflated
	} else {
		// raw is pool-owned and returned above; the uncompressed payload
		// that escapes to the caller must be a copy, not a pooled slice.
		payload = make([]byte, len(raw))
		copy(payload, raw)
	}

	if len(payload) != int(length) {
		return nil, &FrameError{Reason: fmt.Sprintf("payload length %d != declared %d", len(payload), length)}
	}

	return &Response{
		MsgID:   msgID,
		MsgType: msgType,
		Control: control,
		Payload: payload,
	}, nil
}
