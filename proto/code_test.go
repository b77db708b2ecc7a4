package proto

import (
	"testing"

	"github.com/samarthkathal/tdx-go/codec"
	"github.com/stretchr/testify/require"
)

func TestEncodeCodeRequest(t *testing.T) {
	payload := EncodeCodeRequest(SZ, 1000)
	require.Equal(t, byte(SZ), payload[0])
	require.Equal(t, uint16(1000), codec.U16LE(payload[2:4]))
}

func buildCodeRecord(code string, multiple uint16, name string, decimal int8, lastPriceVolume2 []byte) []byte {
	rec := make([]byte, codeRecordSize)
	copy(rec[0:6], code)
	copy(rec[6:8], codec.PutU16LE(nil, multiple))
	copy(rec[8:16], codec.UTF8ToGBK(name))
	rec[20] = byte(decimal)
	copy(rec[21:25], lastPriceVolume2)
	return rec
}

func TestDecodeCodeResponse(t *testing.T) {
	var data []byte
	data = codec.PutU16LE(data, 1) // count
	data = append(data, buildCodeRecord("000001", 100, "PAYH", 2, []byte{0x40, 0x00, 0x00, 0x00})...)

	count, stocks, err := DecodeCodeResponse(data)
	require.NoError(t, err)
	require.Equal(t, uint16(1), count)
	require.Len(t, stocks, 1)
	require.Equal(t, "000001", stocks[0].Code)
	require.Equal(t, uint16(100), stocks[0].Multiple)
	require.Equal(t, int8(2), stocks[0].Decimal)
}

func TestDecodeCodeResponseShort(t *testing.T) {
	_, _, err := DecodeCodeResponse([]byte{0x01})
	require.Error(t, err)
}
