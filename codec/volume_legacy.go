//go:build tdx_legacy_volume

package codec

import "math"

// DecodeVolume decodes the legacy "v1" volume encoding. No live server path
// reaches this codec; it is kept only so older captured test vectors can
// still be checked against a build carrying the tdx_legacy_volume tag.
func DecodeVolume(b []byte) float64 {
	if len(b) < 4 {
		return 0
	}

	val := int32(U32LE(b))
	logpoint := val >> 24
	hleax := (val >> 16) & 0xff
	lheax := (val >> 8) & 0xff
	lleax := val & 0xff

	dwEcx := logpoint*2 - 0x7f
	dwEdx := logpoint*2 - 0x86
	dwEsi := logpoint*2 - 0x8e
	dwEax := logpoint*2 - 0x96

	tmpEax := dwEcx
	if tmpEax < 0 {
		tmpEax = -tmpEax
	}
	var xmm6 float64
	if dwEcx < 0 {
		xmm6 = 1.0 / math.Pow(2, float64(tmpEax))
	} else {
		xmm6 = math.Pow(2, float64(tmpEax))
	}

	var xmm4 float64
	if hleax > 0x80 {
		tmp3 := math.Pow(2, float64(dwEdx+1))
		xmm4 = math.Pow(2, float64(dwEdx))*128.0 + float64(hleax&0x7f)*tmp3
	} else if dwEdx >= 0 {
		xmm4 = math.Pow(2, float64(dwEdx)) * float64(hleax)
	} else {
		xmm4 = (1.0 / math.Pow(2, float64(-dwEdx))) * float64(hleax)
	}

	xmm3 := math.Pow(2, float64(dwEsi)) * float64(lheax)
	xmm1 := math.Pow(2, float64(dwEax)) * float64(lleax)

	if hleax&0x80 > 0 {
		return xmm6 + xmm4 + xmm3*2.0 + xmm1*2.0
	}
	return xmm6 + xmm4 + xmm3 + xmm1
}
