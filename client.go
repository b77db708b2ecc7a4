package tdx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/samarthkathal/tdx-go/frame"
	"github.com/samarthkathal/tdx-go/internal/clock"
	"github.com/samarthkathal/tdx-go/metrics"
	"github.com/samarthkathal/tdx-go/middleware"
	"github.com/samarthkathal/tdx-go/proto"
)

// Connection is a single dialed TDX session. The wire is one in-order
// request/response stream with no multiplexing, so a Connection serializes
// every call behind sendMu: one call's write-then-read must complete before
// the next call's write is issued, or the correlation ids returned would not
// match what was sent.
type Connection struct {
	sendMu sync.Mutex
	conn   net.Conn

	nextID atomic.Uint32

	timeout time.Duration
	logger  *zerolog.Logger
	dialer  *net.Dialer
	metrics *metrics.Collector

	extraMiddleware []func(middleware.Call) middleware.Call
	call            middleware.Call

	closed atomic.Bool
}

// Dial opens a TCP connection to host (":7709" is appended if host has no
// port), performs the Connect handshake, and returns a ready-to-use
// Connection.
func Dial(host string, opts ...Option) (*Connection, error) {
	return DialContext(context.Background(), host, opts...)
}

// DialContext is Dial with a caller-supplied context bounding the dial and
// handshake.
func DialContext(ctx context.Context, host string, opts ...Option) (*Connection, error) {
	c := &Connection{
		timeout: defaultTimeout,
		dialer:  defaultDialer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		nop := zerolog.Nop()
		c.logger = &nop
	}

	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, defaultPort)
	}

	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, newProtocolError(KindIO, "dial", err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	c.conn = conn

	c.call = middleware.Chain(c.rawCall, c.callWrappers()...)

	if err := c.handshake(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return c, nil
}

func (c *Connection) callWrappers() []func(middleware.Call) middleware.Call {
	wrappers := append([]func(middleware.Call) middleware.Call{}, c.extraMiddleware...)
	wrappers = append(wrappers, middleware.Recover(c.logger), middleware.LogCalls(c.logger))
	return wrappers
}

// handshake sends the Connect request with the hardcoded id 1 (bypassing the
// correlation counter) and discards its response body beyond validation.
// The counter starts at 0 and nextMsgID() pre-increments, so the first
// caller-visible request after a successful handshake also gets id 1 - the
// two ids are allowed to collide because nothing tracks outstanding calls
// across the handshake boundary; the connection serializes one call at a
// time for its entire lifetime.
func (c *Connection) handshake() error {
	req := frame.EncodeRequest(1, uint16(proto.Connect), proto.ConnectPayload)
	resp, err := c.writeRead(req)
	if err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	if resp.MsgType != uint16(proto.Connect) {
		return newProtocolError(KindProtocolFraming, "handshake",
			fmt.Errorf("unexpected msgType 0x%04x", resp.MsgType))
	}
	if _, err := proto.DecodeConnectResponse(resp.Payload); err != nil {
		// Non-fatal: some servers' banners don't reach 68 bytes. The
		// handshake has already round-tripped successfully by this point.
		c.logger.Debug().Err(err).Msg("connect banner not decoded")
	}
	return nil
}

// nextMsgID allocates the next correlation id: pre-increment so ids start at 1.
func (c *Connection) nextMsgID() uint32 {
	return c.nextID.Add(1)
}

// send encodes one request for an already allocated msgID, passes it through
// the call chain (whose innermost Call, rawCall, writes it and reads the
// response without logging or recovering), and rejects a response whose
// msgID differs.
func (c *Connection) send(msgID uint32, msgType uint16, payload []byte) (*frame.Response, error) {
	req := frame.EncodeRequest(msgID, msgType, payload)
	resp, err := c.call(msgType, req)
	if err != nil {
		return nil, err
	}
	if resp.MsgID != msgID {
		return nil, newProtocolError(KindCorrelationMismatch, "send",
			fmt.Errorf("got id %d, want %d", resp.MsgID, msgID))
	}
	return resp, nil
}

func (c *Connection) rawCall(msgType uint16, encodedRequest []byte) (*frame.Response, error) {
	resp, err := c.writeRead(encodedRequest)
	if c.metrics != nil {
		respLen := 0
		if resp != nil {
			respLen = len(resp.Payload)
		}
		c.metrics.RecordCall(msgType, len(encodedRequest), respLen, err)
	}
	return resp, err
}

// writeRead holds sendMu for the entire write-then-read round so the
// response read is guaranteed to be this call's own, never a later call's.
func (c *Connection) writeRead(req []byte) (*frame.Response, error) {
	if c.closed.Load() {
		return nil, ErrConnectionClosed
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	deadline := time.Now().Add(c.timeout)
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		c.logger.Debug().Err(err).Msg("set write deadline unsupported")
	}
	if _, err := c.conn.Write(req); err != nil {
		return nil, classifyIOError("write", err)
	}

	if err := c.conn.SetReadDeadline(deadline); err != nil {
		c.logger.Debug().Err(err).Msg("set read deadline unsupported")
	}
	resp, err := frame.DecodeResponse(c.conn)
	if err != nil {
		return nil, classifyIOError("read", err)
	}
	return resp, nil
}

func classifyIOError(op string, err error) error {
	var frameErr *frame.FrameError
	if errors.As(err, &frameErr) {
		return newProtocolError(KindProtocolFraming, op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newProtocolError(KindTimeout, op, err)
	}
	return newProtocolError(KindIO, op, err)
}

// SetTimeout changes the per-call read/write deadline for subsequent calls.
func (c *Connection) SetTimeout(d time.Duration) {
	c.timeout = d
}

// Close closes the underlying TCP connection. A closed Connection rejects
// further calls with ErrConnectionClosed.
func (c *Connection) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.conn.Close()
}

// Heartbeat sends a Heart request with an empty payload and ignores the response.
func (c *Connection) Heartbeat() error {
	_, err := c.send(c.nextMsgID(), uint16(proto.Heart), proto.HeartPayload)
	return err
}

// GetCount returns the number of listed stocks on exchange.
func (c *Connection) GetCount(exchange proto.Exchange) (uint16, error) {
	resp, err := c.send(c.nextMsgID(), uint16(proto.Count), proto.EncodeCountRequest(exchange))
	if err != nil {
		return 0, err
	}
	count, err := proto.DecodeCountResponse(resp.Payload)
	if err != nil {
		return 0, newDecodeError(resp.MsgType, 0, err)
	}
	return count, nil
}

// GetCode returns up to 1000 Stock records on exchange starting at start.
func (c *Connection) GetCode(exchange proto.Exchange, start uint16) (uint16, []proto.Stock, error) {
	resp, err := c.send(c.nextMsgID(), uint16(proto.Code), proto.EncodeCodeRequest(exchange, start))
	if err != nil {
		return 0, nil, err
	}
	count, stocks, err := proto.DecodeCodeResponse(resp.Payload)
	if err != nil {
		return 0, nil, newDecodeError(resp.MsgType, 0, err)
	}
	return count, stocks, nil
}

// GetQuote fetches real-time snapshots for a batch of prefixed symbols.
func (c *Connection) GetQuote(symbols []string) ([]proto.QuoteInfo, error) {
	payload, err := proto.EncodeQuoteRequest(symbols)
	if err != nil {
		return nil, newProtocolError(KindMessageDecode, "GetQuote", err)
	}
	resp, err := c.send(c.nextMsgID(), uint16(proto.Quote), payload)
	if err != nil {
		return nil, err
	}
	quotes, err := proto.DecodeQuoteResponse(resp.Payload)
	if err != nil {
		return nil, newDecodeError(resp.MsgType, 0, err)
	}
	return quotes, nil
}

// GetKline fetches one page of up to 800 bars for a prefixed symbol.
func (c *Connection) GetKline(klineType proto.KlineType, symbol string, start, count uint16) ([]proto.KlineRow, error) {
	symbol = proto.AddPrefix(symbol)
	ex, digits, err := proto.ParseSymbol(symbol)
	if err != nil {
		return nil, newProtocolError(KindMessageDecode, "GetKline", err)
	}

	payload := proto.EncodeKlineRequest(ex, digits, klineType, start, count)
	resp, err := c.send(c.nextMsgID(), uint16(proto.Kline), payload)
	if err != nil {
		return nil, err
	}

	cache := proto.KlineCache{KlineType: klineType, IsIndex: proto.IsIndex(symbol)}
	rows, err := proto.DecodeKlineResponse(resp.Payload, cache)
	if err != nil {
		return nil, newDecodeError(resp.MsgType, 0, err)
	}
	return rows, nil
}

// GetHistoryMinute fetches the minute-line series for symbol on a past
// trading date (YYYYMMDD).
func (c *Connection) GetHistoryMinute(date string, symbol string) ([]proto.PriceNumber, error) {
	symbol = proto.AddPrefix(symbol)
	ex, digits, err := proto.ParseSymbol(symbol)
	if err != nil {
		return nil, newProtocolError(KindMessageDecode, "GetHistoryMinute", err)
	}
	dateNum, err := parseDateU32(date)
	if err != nil {
		return nil, newProtocolError(KindMessageDecode, "GetHistoryMinute", err)
	}

	payload := proto.EncodeHistoryMinuteRequest(dateNum, ex, digits)
	resp, err := c.send(c.nextMsgID(), uint16(proto.HistoryMinute), payload)
	if err != nil {
		return nil, err
	}
	samples, err := proto.DecodeMinuteResponse(resp.Payload)
	if err != nil {
		return nil, newDecodeError(resp.MsgType, 0, err)
	}
	return samples, nil
}

// GetMinute fetches today's minute-line series, deriving "today" from the
// Beijing calendar rather than any approximation.
func (c *Connection) GetMinute(symbol string) ([]proto.PriceNumber, error) {
	today, _ := clock.TodayYYYYMMDD()
	return c.GetHistoryMinute(today, symbol)
}

// GetTrade fetches one page of up to 1800 same-day tick trades.
func (c *Connection) GetTrade(symbol string, start, count uint16) ([]proto.Trade, error) {
	symbol = proto.AddPrefix(symbol)
	ex, digits, err := proto.ParseSymbol(symbol)
	if err != nil {
		return nil, newProtocolError(KindMessageDecode, "GetTrade", err)
	}

	payload := proto.EncodeTradeRequest(ex, digits, start, count)
	resp, err := c.send(c.nextMsgID(), uint16(proto.MinuteTrade), payload)
	if err != nil {
		return nil, err
	}

	today, _ := clock.TodayYYYYMMDD()
	cache := proto.TradeCache{Date: today, Code: symbol}
	trades, err := proto.DecodeTradeResponse(resp.Payload, cache)
	if err != nil {
		return nil, newDecodeError(resp.MsgType, 0, err)
	}
	return trades, nil
}

// GetHistoryTrade fetches one page of up to 2000 tick trades on a past
// trading date (YYYYMMDD).
func (c *Connection) GetHistoryTrade(date, symbol string, start, count uint16) ([]proto.Trade, error) {
	symbol = proto.AddPrefix(symbol)
	ex, digits, err := proto.ParseSymbol(symbol)
	if err != nil {
		return nil, newProtocolError(KindMessageDecode, "GetHistoryTrade", err)
	}
	dateNum, err := parseDateU32(date)
	if err != nil {
		return nil, newProtocolError(KindMessageDecode, "GetHistoryTrade", err)
	}

	payload := proto.EncodeHistoryTradeRequest(dateNum, ex, digits, start, count)
	resp, err := c.send(c.nextMsgID(), uint16(proto.HistoryMinuteTrade), payload)
	if err != nil {
		return nil, err
	}

	cache := proto.TradeCache{Date: date, Code: symbol}
	trades, err := proto.DecodeHistoryTradeResponse(resp.Payload, cache)
	if err != nil {
		return nil, newDecodeError(resp.MsgType, 0, err)
	}
	return trades, nil
}

// GetCallAuction fetches the pre-open call-auction snapshot for symbol.
func (c *Connection) GetCallAuction(symbol string) ([]proto.CallAuctionRow, error) {
	symbol = proto.AddPrefix(symbol)
	ex, digits, err := proto.ParseSymbol(symbol)
	if err != nil {
		return nil, newProtocolError(KindMessageDecode, "GetCallAuction", err)
	}

	payload := proto.EncodeCallAuctionRequest(ex, digits)
	resp, err := c.send(c.nextMsgID(), uint16(proto.CallAuction), payload)
	if err != nil {
		return nil, err
	}
	rows, err := proto.DecodeCallAuctionResponse(resp.Payload, clock.Now())
	if err != nil {
		return nil, newDecodeError(resp.MsgType, 0, err)
	}
	return rows, nil
}

// GetGbbq fetches the capital-structure-change / ex-dividend history for symbol.
func (c *Connection) GetGbbq(symbol string) ([]proto.Gbbq, error) {
	symbol = proto.AddPrefix(symbol)
	ex, digits, err := proto.ParseSymbol(symbol)
	if err != nil {
		return nil, newProtocolError(KindMessageDecode, "GetGbbq", err)
	}

	payload := proto.EncodeGbbqRequest(ex, digits)
	resp, err := c.send(c.nextMsgID(), uint16(proto.Gbbq), payload)
	if err != nil {
		return nil, err
	}
	rows, err := proto.DecodeGbbqResponse(resp.Payload)
	if err != nil {
		return nil, newDecodeError(resp.MsgType, 0, err)
	}
	return rows, nil
}

func parseDateU32(date string) (uint32, error) {
	if len(date) != 8 {
		return 0, fmt.Errorf("date %q: want YYYYMMDD", date)
	}
	var n uint32
	for i := 0; i < 8; i++ {
		d := date[i]
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("date %q: not numeric", date)
		}
		n = n*10 + uint32(d-'0')
	}
	return n, nil
}
