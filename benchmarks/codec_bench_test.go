package benchmarks

import (
	"testing"

	"github.com/samarthkathal/tdx-go/codec"
)

// BenchmarkDecodeVarintShort benchmarks the single-byte (no continuation) path.
func BenchmarkDecodeVarintShort(b *testing.B) {
	buf := []byte{0x2A}
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = codec.DecodeVarint(buf)
	}
}

// BenchmarkDecodeVarintLong benchmarks a multi-continuation-byte value, the
// shape a large rolling price delta takes on the wire.
func BenchmarkDecodeVarintLong(b *testing.B) {
	buf := codec.EncodeVarint(1 << 24)
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = codec.DecodeVarint(buf)
	}
}

// BenchmarkEncodeVarint benchmarks the inverse encode path, which tests use
// to build varint-encoded response fixtures.
func BenchmarkEncodeVarint(b *testing.B) {
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = codec.EncodeVarint(123456)
	}
}

// BenchmarkDecodeVolume2 benchmarks the quasi-float volume/amount decoder,
// the hottest per-record codec path in a full Kline/Trade page decode.
func BenchmarkDecodeVolume2(b *testing.B) {
	buf := []byte{0x12, 0x34, 0x56, 0x78}
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = codec.DecodeVolume2(buf)
	}
}

// BenchmarkGBKToUTF8 benchmarks the stock-name transcode applied to every
// Code/Stock record in a full-market listing.
func BenchmarkGBKToUTF8(b *testing.B) {
	// GBK encoding of "平安银行", which fills the 8-byte field with no NUL padding.
	buf := []byte{0xC6, 0xBD, 0xB0, 0xB2, 0xD2, 0xF8, 0xD0, 0xD0}
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = codec.GBKToUTF8(buf)
	}
}
