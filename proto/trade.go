package proto

import (
	"time"

	"github.com/samarthkathal/tdx-go/codec"
)

// EncodeTradeRequest builds a same-day Trade request payload (MinuteTrade).
func EncodeTradeRequest(exchange Exchange, codeDigits string, start, count uint16) []byte {
	w := codec.NewWriter()
	w.PutByte(byte(exchange))
	w.PutByte(0x00)
	w.PutBytes([]byte(codeDigits))
	w.PutU16(start)
	w.PutU16(count)
	return w.Bytes()
}

// EncodeHistoryTradeRequest builds a HistoryTrade request payload for a past
// trading date (HistoryMinuteTrade).
func EncodeHistoryTradeRequest(date uint32, exchange Exchange, codeDigits string, start, count uint16) []byte {
	w := codec.NewWriter()
	w.PutU32(date)
	w.PutByte(byte(exchange))
	w.PutByte(0x00)
	w.PutBytes([]byte(codeDigits))
	w.PutU16(start)
	w.PutU16(count)
	return w.Bytes()
}

// DecodeTradeResponse decodes a same-day Trade response (no reserved header,
// each record carries an explicit sequence number).
func DecodeTradeResponse(data []byte, cache TradeCache) ([]Trade, error) {
	return decodeTradeRecords(data, cache, false)
}

// DecodeHistoryTradeResponse decodes a HistoryTrade response (4-byte
// reserved header, no per-record sequence number).
func DecodeHistoryTradeResponse(data []byte, cache TradeCache) ([]Trade, error) {
	return decodeTradeRecords(data, cache, true)
}

func decodeTradeRecords(data []byte, cache TradeCache, history bool) ([]Trade, error) {
	if len(data) < 2 {
		return nil, newShortRead(len(data), 2)
	}

	r := codec.NewReader(data)
	count, err := r.U16()
	if err != nil {
		return nil, err
	}
	if history {
		if err := r.Skip(4); err != nil {
			return nil, err
		}
	}

	date, err := parseYYYYMMDD(cache.Date)
	if err != nil {
		return nil, err
	}

	trades := make([]Trade, 0, count)
	var price codec.Price

	for i := 0; i < int(count); i++ {
		timeRaw, err := r.U16()
		if err != nil {
			return nil, err
		}
		priceD, err := r.Varint()
		if err != nil {
			return nil, err
		}
		volume, err := r.Varint()
		if err != nil {
			return nil, err
		}

		var number int32
		if !history {
			number, err = r.Varint()
			if err != nil {
				return nil, err
			}
		}

		statusRaw, err := r.Varint()
		if err != nil {
			return nil, err
		}
		if _, err := r.Varint(); err != nil { // discarded
			return nil, err
		}

		price += codec.Price(priceD) * 10

		hour := int(timeRaw) / 60
		minute := int(timeRaw) % 60

		trades = append(trades, Trade{
			Time:   time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, beijing),
			Price:  price,
			Volume: volume,
			Status: statusFromRaw(statusRaw),
			Number: number,
		})
	}

	return trades, nil
}

func statusFromRaw(raw int32) TradeStatus {
	switch raw {
	case 0:
		return Buy
	case 1:
		return Sell
	default:
		return Neutral
	}
}

func parseYYYYMMDD(date string) (time.Time, error) {
	return time.ParseInLocation("20060102", date, beijing)
}
