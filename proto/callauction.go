package proto

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/samarthkathal/tdx-go/codec"
)

const callAuctionRecordSize = 16

// EncodeCallAuctionRequest builds a CallAuction request for one symbol.
func EncodeCallAuctionRequest(exchange Exchange, codeDigits string) []byte {
	w := codec.NewWriter()
	w.PutByte(byte(exchange))
	w.PutByte(0x00)
	w.PutBytes([]byte(codeDigits))
	return w.Bytes()
}

// DecodeCallAuctionResponse decodes a CallAuction response. today is the
// Beijing-calendar trading date each record's time-of-day is anchored to.
func DecodeCallAuctionResponse(data []byte, today time.Time) ([]CallAuctionRow, error) {
	if len(data) < 2 {
		return nil, newShortRead(len(data), 2)
	}

	count := codec.U16LE(data)
	offset := 2
	rows := make([]CallAuctionRow, 0, count)

	for i := 0; i < int(count); i++ {
		if offset+callAuctionRecordSize > len(data) {
			return nil, newShortRead(len(data), offset+callAuctionRecordSize)
		}
		rec := data[offset : offset+callAuctionRecordSize]

		n := codec.U16LE(rec[0:2])
		priceRaw := math.Float32frombits(binary.LittleEndian.Uint32(rec[2:6]))
		matched := int64(codec.U32LE(rec[6:10]))
		unmatchedRaw := int16(codec.U16LE(rec[10:12]))
		second := int(rec[15])

		var flag int8 = 1
		unmatched := int64(unmatchedRaw)
		if unmatchedRaw < 0 {
			flag = -1
			unmatched = -unmatched
		}

		rows = append(rows, CallAuctionRow{
			Time: time.Date(today.Year(), today.Month(), today.Day(),
				int(n)/60, int(n)%60, second, 0, beijing),
			Price:     codec.Price(int64(priceRaw * 1000)),
			Matched:   matched,
			Unmatched: unmatched,
			Flag:      flag,
		})

		offset += callAuctionRecordSize
	}

	return rows, nil
}
