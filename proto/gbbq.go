package proto

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/samarthkathal/tdx-go/codec"
)

const gbbqRecordSize = 29

// EncodeGbbqRequest builds the Gbbq request payload for one symbol.
func EncodeGbbqRequest(exchange Exchange, codeDigits string) []byte {
	w := codec.NewWriter()
	w.PutByte(byte(exchange))
	w.PutByte(0x00)
	w.PutBytes([]byte(codeDigits))
	return w.Bytes()
}

// DecodeGbbqResponse decodes a Gbbq response: 9 reserved bytes, a u16 count,
// then 29-byte records whose trailing 16 bytes are interpreted per category.
func DecodeGbbqResponse(data []byte) ([]Gbbq, error) {
	if len(data) < 11 {
		return nil, newShortRead(len(data), 11)
	}

	count := codec.U16LE(data[9:11])
	offset := 11
	out := make([]Gbbq, 0, count)

	for i := 0; i < int(count); i++ {
		if offset+gbbqRecordSize > len(data) {
			return nil, newShortRead(len(data), offset+gbbqRecordSize)
		}
		rec := data[offset : offset+gbbqRecordSize]

		ex := Exchange(rec[0])
		codeDigits := string(rec[1:7])
		// rec[7] reserved
		date := codec.U32LE(rec[8:12])
		category := int32(rec[12])
		payload := rec[13:29]

		year := int(date / 10000)
		month := int((date / 100) % 100)
		day := int(date % 100)

		g := Gbbq{
			Code:     ex.String() + codeDigits,
			Time:     time.Date(year, time.Month(month), day, 15, 0, 0, 0, beijing),
			Category: category,
		}
		decodeGbbqPayload(&g, payload)
		out = append(out, g)

		offset += gbbqRecordSize
	}

	return out, nil
}

func decodeGbbqPayload(g *Gbbq, payload []byte) {
	f32 := func(off int) float64 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(payload[off : off+4])))
	}

	switch g.Category {
	case 1:
		g.C1 = f32(0)
		g.C2 = f32(4)
		g.C3 = f32(8)
		g.C4 = f32(12)
	case 11, 12:
		g.C3 = f32(8)
	case 13, 14:
		g.C1 = f32(0)
		g.C3 = f32(8)
	default:
		g.C1 = codec.DecodeVolume2(payload[0:4]) * 1e4
		g.C2 = codec.DecodeVolume2(payload[4:8]) * 1e4
		g.C3 = codec.DecodeVolume2(payload[8:12]) * 1e4
		g.C4 = codec.DecodeVolume2(payload[12:16]) * 1e4
	}
}
