package codec

// Price is a signed quantity in milli-yuan (1/1000 CNY), the unit every price
// field on the wire is expressed in once its rolling delta has been
// accumulated against the appropriate reference. Price carries no implicit
// scaling; callers that need the "x10" or "x1000" conventions documented per
// message type apply them explicitly.
type Price int64

// Yuan converts a Price to its floating-point yuan value.
func (p Price) Yuan() float64 {
	return float64(p) / 1000.0
}

// DecodePrice decodes a signed varint and wraps it as a Price with no unit
// conversion; scaling is the caller's responsibility per message type.
func DecodePrice(b []byte) (Price, int) {
	v, n := DecodeVarint(b)
	return Price(v), n
}
