package proto

import (
	"fmt"

	"github.com/samarthkathal/tdx-go/codec"
)

// EncodeHistoryMinuteRequest builds a HistoryMinute request payload for one
// symbol on one trading date (YYYYMMDD). The current-day Minute request is
// just this with today's Beijing-calendar date.
func EncodeHistoryMinuteRequest(date uint32, exchange Exchange, codeDigits string) []byte {
	w := codec.NewWriter()
	w.PutU32(date)
	w.PutByte(byte(exchange))
	w.PutBytes([]byte(codeDigits))
	return w.Bytes()
}

// DecodeMinuteResponse decodes a Minute/HistoryMinute response into its
// per-minute samples. The second field of each record has no documented
// meaning in the reference protocol and is read-and-discarded rather than
// reinterpreted.
func DecodeMinuteResponse(data []byte) ([]PriceNumber, error) {
	if len(data) < 6 {
		return nil, newShortRead(len(data), 6)
	}

	r := codec.NewReader(data)
	count, err := r.U16()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(4); err != nil { // reserved
		return nil, err
	}

	samples := make([]PriceNumber, 0, count)
	var price codec.Price

	// Trading starts 09:30; record i (0-based) lands on 09:30+(i+1) minutes,
	// with the 11:30-13:00 lunch break bridged by a +90 minute jump at i==120.
	baseMinutes := 9*60 + 30

	for i := 0; i < int(count); i++ {
		priceD, err := r.Varint()
		if err != nil {
			return nil, err
		}
		if _, err := r.Varint(); err != nil { // discarded, undocumented in the reference
			return nil, err
		}
		number, err := r.Varint()
		if err != nil {
			return nil, err
		}

		price += codec.Price(priceD)

		if i == 120 {
			baseMinutes += 90
		}
		minutes := baseMinutes + i + 1

		samples = append(samples, PriceNumber{
			Time:   formatHHMM(minutes),
			Price:  price * 10,
			Number: number,
		})
	}

	return samples, nil
}

func formatHHMM(totalMinutes int) string {
	h := (totalMinutes / 60) % 24
	m := totalMinutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}
