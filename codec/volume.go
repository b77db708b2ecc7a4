package codec

import "math"

// DecodeVolume2 decodes the 4-byte little-endian quasi-floating-point
// encoding used by every live volume/amount field. Bytes are split, from the
// u32's MSB downward, into logpoint (byte 3), hi (byte 2), mid (byte 1), and
// lo (byte 0).
func DecodeVolume2(b []byte) float64 {
	if len(b) < 4 {
		return 0
	}

	val := int32(U32LE(b))
	logpoint := val >> 24
	hi := (val >> 16) & 0xff
	mid := (val >> 8) & 0xff
	lo := val & 0xff

	e := logpoint*2 - 0x7f
	base := math.Pow(2, float64(e))

	var mantHi float64
	if hi > 0x80 {
		mantHi = base * (64.0 + float64(hi&0x7f)) / 64.0
	} else {
		mantHi = base * float64(hi) / 128.0
	}

	scale := 1.0
	if hi&0x80 != 0 {
		scale = 2.0
	}

	mantMid := base * float64(mid) / 32768.0 * scale
	mantLo := base * float64(lo) / 8388608.0 * scale

	return base + mantHi + mantMid + mantLo
}
