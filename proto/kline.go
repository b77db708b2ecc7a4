package proto

import (
	"time"

	"github.com/samarthkathal/tdx-go/codec"
)

// EncodeKlineRequest builds a Kline request payload for one symbol, period,
// and page. count must be <= 800 per batch.
func EncodeKlineRequest(exchange Exchange, codeDigits string, klineType KlineType, start, count uint16) []byte {
	w := codec.NewWriter()
	w.PutByte(byte(exchange))
	w.PutByte(0x00)
	w.PutBytes([]byte(codeDigits))
	w.PutByte(byte(klineType))
	w.PutByte(0x00)
	w.PutByte(0x01)
	w.PutByte(0x00)
	w.PutU16(start)
	w.PutU16(count)
	w.PutBytes(make([]byte, 10))
	return w.Bytes()
}

// needsVolumeDiv100 reports the KlineType values whose decoded volume
// is reported in units of 100 shares and must be divided down.
func needsVolumeDiv100(kt KlineType) bool {
	switch kt {
	case Minute5, Minute15, Minute30, Minute60, Day2, Minute1, Minute1Alt:
		return true
	default:
		return false
	}
}

// DecodeKlineResponse decodes a Kline response into its bars, using cache
// for the period and index-ness context the wire does not repeat.
func DecodeKlineResponse(data []byte, cache KlineCache) ([]KlineRow, error) {
	if len(data) < 2 {
		return nil, newShortRead(len(data), 2)
	}

	r := codec.NewReader(data)
	count, err := r.U16()
	if err != nil {
		return nil, err
	}

	rows := make([]KlineRow, 0, count)
	var lastClose codec.Price

	for i := 0; i < int(count); i++ {
		row, err := decodeOneKlineRow(r, cache, &lastClose)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func decodeOneKlineRow(r *codec.Reader, cache KlineCache, lastClose *codec.Price) (KlineRow, error) {
	var row KlineRow

	t, err := decodeKlineTime(r, cache.KlineType)
	if err != nil {
		return row, err
	}
	row.Time = t

	openD, err := r.Varint()
	if err != nil {
		return row, err
	}
	closeD, err := r.Varint()
	if err != nil {
		return row, err
	}
	highD, err := r.Varint()
	if err != nil {
		return row, err
	}
	lowD, err := r.Varint()
	if err != nil {
		return row, err
	}

	open := *lastClose + codec.Price(openD)
	closeP := *lastClose + codec.Price(openD) + codec.Price(closeD)
	high := *lastClose + codec.Price(openD) + codec.Price(highD)
	low := *lastClose + codec.Price(openD) + codec.Price(lowD)
	*lastClose = closeP

	row.K = K{Open: open, Close: closeP, High: high, Low: low}

	vol, err := r.Volume2()
	if err != nil {
		return row, err
	}
	volume := int64(vol)
	if needsVolumeDiv100(cache.KlineType) {
		volume /= 100
	}
	if cache.IsIndex {
		volume *= 100
	}
	row.Volume = volume

	amount, err := r.Volume2()
	if err != nil {
		return row, err
	}
	row.Amount = codec.Price(amount * 1000)

	if cache.IsIndex {
		up, err := r.U16()
		if err != nil {
			return row, err
		}
		down, err := r.U16()
		if err != nil {
			return row, err
		}
		row.UpCount = int32(up)
		row.DownCount = int32(down)
	}

	row.Order = 0
	return row, nil
}

func decodeKlineTime(r *codec.Reader, kt KlineType) (time.Time, error) {
	if kt.Intraday() {
		v1, err := r.U16()
		if err != nil {
			return time.Time{}, err
		}
		v2, err := r.U16()
		if err != nil {
			return time.Time{}, err
		}

		year := int(v1>>11) + 2004
		month := int(v1%2048) / 100
		day := int(v1%2048) % 100
		hour := int(v2) / 60
		minute := int(v2) % 60

		return time.Date(year, time.Month(month), day, hour, minute, 0, 0, beijing), nil
	}

	v, err := r.U32()
	if err != nil {
		return time.Time{}, err
	}
	year := int(v / 10000)
	month := int((v / 100) % 100)
	day := int(v % 100)
	return time.Date(year, time.Month(month), day, 15, 0, 0, 0, beijing), nil
}
