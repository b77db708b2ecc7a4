package proto

import "fmt"

// shortReadError reports a payload that ran out of bytes before a
// fixed-size field could be read. client.go wraps these into the root
// package's *DecodeError, attaching the message type (and an offset of 0).
type shortReadError struct {
	need, have int
}

func (e *shortReadError) Error() string {
	return fmt.Sprintf("need %d bytes, have %d", e.need, e.have)
}

func newShortRead(have, need int) error {
	return &shortReadError{need: need, have: have}
}
