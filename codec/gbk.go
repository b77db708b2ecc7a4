package codec

import (
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// GBKToUTF8 transcodes a GBK-encoded, NUL-padded wire field to a trimmed
// UTF-8 string. Decode errors from malformed input are not fatal: the raw
// input bytes, NUL-trimmed, are returned as the string rather than abandoning
// an otherwise-parseable record over one bad text field.
func GBKToUTF8(b []byte) string {
	out, err := simplifiedchinese.GBK.NewDecoder().Bytes(b)
	if err != nil {
		return strings.TrimRight(string(b), "\x00")
	}
	return strings.TrimRight(string(out), "\x00")
}

// UTF8ToGBK transcodes a UTF-8 string to GBK bytes. Every outbound string in
// this protocol is an ASCII numeric code, so this is a no-op in practice, but
// it is provided for symmetry and for callers that build raw frames by hand.
func UTF8ToGBK(s string) []byte {
	out, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}
