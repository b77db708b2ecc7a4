// Package middleware generalizes the teacher's http.RoundTripper wrapping
// idiom (ChainRoundTrippers, LoggingRoundTripper, RecoveryRoundTripper) from
// HTTP's request/response cycle to the TDX protocol's own synchronous
// request/response cycle.
package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"github.com/samarthkathal/tdx-go/frame"
)

// Call issues one request/response round trip: msgType identifies the
// message, payload is the already-encoded request frame, and the result is
// the decoded response frame.
type Call func(msgType uint16, payload []byte) (*frame.Response, error)

// Chain composes wrappers around base. Wrappers are applied in order: the
// first wrapper is outermost, mirroring ChainRoundTrippers.
func Chain(base Call, wrappers ...func(Call) Call) Call {
	result := base
	for i := len(wrappers) - 1; i >= 0; i-- {
		result = wrappers[i](result)
	}
	return result
}

// LogCalls logs each call's msgType, byte counts, and duration at debug
// level. A nil or disabled logger makes this a no-op wrapper.
func LogCalls(logger *zerolog.Logger) func(Call) Call {
	return func(next Call) Call {
		return func(msgType uint16, payload []byte) (*frame.Response, error) {
			start := time.Now()
			resp, err := next(msgType, payload)
			dur := time.Since(start)

			if logger == nil {
				return resp, err
			}
			ev := logger.Debug().
				Uint16("msgType", msgType).
				Int("reqBytes", len(payload)).
				Dur("duration", dur)
			if err != nil {
				ev.Err(err).Msg("tdx call failed")
			} else {
				ev.Int("respBytes", len(resp.Payload)).Msg("tdx call")
			}
			return resp, err
		}
	}
}

// Recover turns a panic inside next into an error instead of crashing the
// caller, logging the recovered value and stack trace when logger is set.
func Recover(logger *zerolog.Logger) func(Call) Call {
	return func(next Call) Call {
		return func(msgType uint16, payload []byte) (resp *frame.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					if logger != nil {
						logger.Error().
							Interface("panic", r).
							Bytes("stack", debug.Stack()).
							Msg("tdx call panic recovered")
					}
					err = fmt.Errorf("tdx: panic recovered: %v", r)
					resp = nil
				}
			}()
			return next(msgType, payload)
		}
	}
}
