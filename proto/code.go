package proto

import "github.com/samarthkathal/tdx-go/codec"

const codeRecordSize = 29

// EncodeCodeRequest builds a Code request payload for one exchange and
// paging offset.
func EncodeCodeRequest(exchange Exchange, start uint16) []byte {
	w := codec.NewWriter()
	w.PutByte(byte(exchange))
	w.PutByte(0x00)
	w.PutU16(start)
	return w.Bytes()
}

// DecodeCodeResponse decodes a Code response into its reported count and the
// Stock records themselves. Each 29-byte record is: 6 ASCII code digits, a
// u16 multiple, an 8-byte GBK name, 4 reserved bytes, an i8 decimal, a
// volume-v2 last price, and 4 trailing padding bytes.
func DecodeCodeResponse(data []byte) (uint16, []Stock, error) {
	if len(data) < 2 {
		return 0, nil, newShortRead(len(data), 2)
	}

	count := codec.U16LE(data)
	offset := 2
	stocks := make([]Stock, 0, count)

	for i := 0; i < int(count); i++ {
		if offset+codeRecordSize > len(data) {
			return 0, nil, newShortRead(len(data), offset+codeRecordSize)
		}
		rec := data[offset : offset+codeRecordSize]

		stocks = append(stocks, Stock{
			Code:      string(rec[0:6]),
			Multiple:  codec.U16LE(rec[6:8]),
			Name:      codec.GBKToUTF8(rec[8:16]),
			Decimal:   int8(rec[20]),
			LastPrice: codec.DecodeVolume2(rec[21:25]),
		})

		offset += codeRecordSize
	}

	return count, stocks, nil
}
