package proto

import (
	"testing"
	"time"

	"github.com/samarthkathal/tdx-go/codec"
	"github.com/stretchr/testify/require"
)

func TestEncodeTradeRequest(t *testing.T) {
	payload := EncodeTradeRequest(SZ, "000001", 0, 1800)
	require.Equal(t, byte(SZ), payload[0])
	require.Equal(t, "000001", string(payload[2:8]))
	require.Equal(t, uint16(1800), codec.U16LE(payload[10:12]))
}

func TestEncodeHistoryTradeRequest(t *testing.T) {
	payload := EncodeHistoryTradeRequest(20240102, SH, "600000", 0, 2000)
	require.Equal(t, uint32(20240102), codec.U32LE(payload[0:4]))
	require.Equal(t, byte(SH), payload[4])
	require.Equal(t, "600000", string(payload[6:12]))
}

func buildTradeRecord(w *codec.Writer, timeRaw uint16, priceD, volume int32, includeNumber bool, number, status int32) {
	w.PutU16(timeRaw)
	w.PutVarint(priceD)
	w.PutVarint(volume)
	if includeNumber {
		w.PutVarint(number)
	}
	w.PutVarint(status)
	w.PutVarint(0) // discarded
}

func TestDecodeTradeResponse(t *testing.T) {
	w := codec.NewWriter()
	w.PutU16(1) // count
	buildTradeRecord(w, 9*60+31, 5, 100, true, 42, 0)

	trades, err := DecodeTradeResponse(w.Bytes(), TradeCache{Date: "20240102", Code: "sz000001"})
	require.NoError(t, err)
	require.Len(t, trades, 1)

	tr := trades[0]
	require.Equal(t, codec.Price(50), tr.Price)
	require.Equal(t, int32(100), tr.Volume)
	require.Equal(t, int32(42), tr.Number)
	require.Equal(t, Buy, tr.Status)
	require.Equal(t, time.Date(2024, 1, 2, 9, 31, 0, 0, beijing), tr.Time)
}

func TestDecodeHistoryTradeResponseNoSequenceNumber(t *testing.T) {
	w := codec.NewWriter()
	w.PutU16(1)         // count
	w.PutBytes(make([]byte, 4)) // reserved header
	buildTradeRecord(w, 13*60+1, -2, 50, false, 0, 1)

	trades, err := DecodeHistoryTradeResponse(w.Bytes(), TradeCache{Date: "20240102", Code: "sh600000"})
	require.NoError(t, err)
	require.Len(t, trades, 1)

	tr := trades[0]
	require.Equal(t, codec.Price(-20), tr.Price)
	require.Equal(t, Sell, tr.Status)
	require.Equal(t, int32(0), tr.Number)
	require.Equal(t, time.Date(2024, 1, 2, 13, 1, 0, 0, beijing), tr.Time)
}

func TestDecodeTradeResponseShort(t *testing.T) {
	_, err := DecodeTradeResponse([]byte{0x00}, TradeCache{Date: "20240102"})
	require.Error(t, err)
}
