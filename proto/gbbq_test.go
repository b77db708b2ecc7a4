package proto

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/samarthkathal/tdx-go/codec"
	"github.com/stretchr/testify/require"
)

func TestEncodeGbbqRequest(t *testing.T) {
	payload := EncodeGbbqRequest(SH, "600000")
	require.Equal(t, byte(SH), payload[0])
	require.Equal(t, "600000", string(payload[2:8]))
}

func buildGbbqRecord(ex Exchange, codeDigits string, date uint32, category int32, c1, c2, c3, c4 float32) []byte {
	rec := make([]byte, gbbqRecordSize)
	rec[0] = byte(ex)
	copy(rec[1:7], codeDigits)
	binary.LittleEndian.PutUint32(rec[8:12], date)
	rec[12] = byte(category)
	binary.LittleEndian.PutUint32(rec[13:17], math.Float32bits(c1))
	binary.LittleEndian.PutUint32(rec[17:21], math.Float32bits(c2))
	binary.LittleEndian.PutUint32(rec[21:25], math.Float32bits(c3))
	binary.LittleEndian.PutUint32(rec[25:29], math.Float32bits(c4))
	return rec
}

func TestDecodeGbbqResponseExDividendCategory(t *testing.T) {
	var data []byte
	data = append(data, make([]byte, 9)...) // reserved header
	data = codec.PutU16LE(data, 1)          // count
	data = append(data, buildGbbqRecord(SZ, "000001", 20240102, 1, 1.5, 2.5, 3.5, 4.5)...)

	rows, err := DecodeGbbqResponse(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	require.Equal(t, "sz000001", row.Code)
	require.Equal(t, time.Date(2024, 1, 2, 15, 0, 0, 0, beijing), row.Time)
	require.Equal(t, int32(1), row.Category)
	require.InDelta(t, 1.5, row.C1, 1e-4)
	require.InDelta(t, 2.5, row.C2, 1e-4)
	require.InDelta(t, 3.5, row.C3, 1e-4)
	require.InDelta(t, 4.5, row.C4, 1e-4)
	require.Equal(t, "ex-dividend", row.CategoryName())
}

func TestDecodeGbbqResponseShareConsolidationOnlyC3(t *testing.T) {
	var data []byte
	data = append(data, make([]byte, 9)...)
	data = codec.PutU16LE(data, 1)
	data = append(data, buildGbbqRecord(SH, "600000", 20240102, 11, 0, 0, 9.9, 0)...)

	rows, err := DecodeGbbqResponse(data)
	require.NoError(t, err)
	require.InDelta(t, 9.9, rows[0].C3, 1e-4)
	require.Equal(t, float64(0), rows[0].C1)
	require.Equal(t, "share-consolidation", rows[0].CategoryName())
}

func TestDecodeGbbqResponseShort(t *testing.T) {
	_, err := DecodeGbbqResponse([]byte{0x00})
	require.Error(t, err)
}
