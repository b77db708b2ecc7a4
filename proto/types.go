// Package proto implements the TDX message codecs: one request encoder and
// one response decoder per message type, operating on the payload bytes the
// frame layer produces and consumes.
package proto

import (
	"fmt"
	"time"

	"github.com/samarthkathal/tdx-go/codec"
)

// Exchange identifies one of the three markets this protocol serves.
type Exchange uint8

const (
	SZ Exchange = 0
	SH Exchange = 1
	BJ Exchange = 2
)

// String returns the two-letter lowercase prefix used in symbol strings.
func (e Exchange) String() string {
	switch e {
	case SZ:
		return "sz"
	case SH:
		return "sh"
	case BJ:
		return "bj"
	default:
		return fmt.Sprintf("exchange(%d)", uint8(e))
	}
}

// ExchangeFromPrefix maps a two-letter symbol prefix to an Exchange.
func ExchangeFromPrefix(prefix string) (Exchange, bool) {
	switch prefix {
	case "sz":
		return SZ, true
	case "sh":
		return SH, true
	case "bj":
		return BJ, true
	default:
		return 0, false
	}
}

// KlineType is the period tag controlling both the Kline request byte and
// the time-field decoding convention of the response.
type KlineType uint8

const (
	Minute5 KlineType = iota
	Minute15
	Minute30
	Minute60
	Day2
	Week
	Month
	Minute1
	Minute1Alt
	Day
	Quarter
	Year
)

// Intraday reports whether this period uses the two-u16 intraday time field
// (true) or the single YYYYMMDD u32 day-granularity field (false).
func (k KlineType) Intraday() bool {
	switch k {
	case Minute5, Minute15, Minute30, Minute60, Day2, Minute1, Minute1Alt:
		return true
	default:
		return false
	}
}

// MessageType is the 16-bit wire tag identifying a request/response pair.
type MessageType uint16

const (
	Connect             MessageType = 0x000D
	Heart               MessageType = 0x0004
	Gbbq                MessageType = 0x000F
	Count               MessageType = 0x044E
	Code                MessageType = 0x0450
	Quote               MessageType = 0x053E
	Minute              MessageType = 0x051D
	CallAuction         MessageType = 0x056A
	MinuteTrade         MessageType = 0x0FC5
	HistoryMinute       MessageType = 0x0FB4
	HistoryMinuteTrade  MessageType = 0x0FB5
	Kline               MessageType = 0x052D
)

// Stock is one row of a Code/Count listing: a symbol's static metadata.
type Stock struct {
	Name      string
	Code      string
	Multiple  uint16
	Decimal   int8
	LastPrice float64
}

// K is the five-field OHLC bundle shared by Quote and Kline, decoded as
// deltas relative to Close per the rules documented on each message type.
type K struct {
	Last  codec.Price
	Open  codec.Price
	High  codec.Price
	Low   codec.Price
	Close codec.Price
}

// KlineRow is one bar of a Kline series.
type KlineRow struct {
	K
	Order     int32
	Volume    int64
	Amount    codec.Price
	Time      time.Time
	UpCount   int32
	DownCount int32
}

// PriceNumber is one intraday minute-line sample.
type PriceNumber struct {
	Time   string
	Price  codec.Price
	Number int32
}

// TradeStatus classifies a tick trade's aggressor side.
type TradeStatus uint8

const (
	Buy TradeStatus = iota
	Sell
	Neutral
)

// Trade is one tick-level trade record.
type Trade struct {
	Time   time.Time
	Price  codec.Price
	Volume int32
	Status TradeStatus
	Number int32
}

// PriceLevel is one rung of a 5-level order book snapshot.
type PriceLevel struct {
	Buy    bool
	Price  codec.Price
	Number int32
}

// QuoteInfo is a single symbol's real-time snapshot.
type QuoteInfo struct {
	Exchange   Exchange
	Code       string
	Active1    uint16
	K          K
	ServerTime string
	TotalHand  int32
	Intuition  int32
	Amount     float64
	InsideDish int32
	OuterDisc  int32
	BuyLevel   [5]PriceLevel
	SellLevel  [5]PriceLevel
	Rate       float64
	Active2    uint16
}

// CallAuctionRow is one pre-open call-auction snapshot sample.
type CallAuctionRow struct {
	Time      time.Time
	Price     codec.Price
	Matched   int64
	Unmatched int64
	Flag      int8
}

// Gbbq is one capital-structure-change / ex-dividend event.
type Gbbq struct {
	Code     string
	Time     time.Time
	Category int32
	C1       float64
	C2       float64
	C3       float64
	C4       float64
}

// CategoryName returns a short label for g.Category, or "unknown" for any
// value not among the fourteen recognized categories.
func (g Gbbq) CategoryName() string {
	switch g.Category {
	case 1:
		return "ex-dividend"
	case 2:
		return "bonus-transfer-listing"
	case 3:
		return "non-tradable-share-listing"
	case 4:
		return "unknown-equity-change"
	case 5:
		return "equity-change"
	case 6:
		return "secondary-offering"
	case 7:
		return "share-buyback"
	case 8:
		return "secondary-offering-listing"
	case 9:
		return "converted-share-listing"
	case 10:
		return "convertible-bond-listing"
	case 11:
		return "share-consolidation"
	case 12:
		return "non-tradable-share-consolidation"
	case 13:
		return "call-warrant"
	case 14:
		return "put-warrant"
	default:
		return "unknown"
	}
}

// IsEquity reports whether g.Category is one of the equity-structure change
// categories (as opposed to a cash ex-dividend event).
func (g Gbbq) IsEquity() bool {
	switch g.Category {
	case 2, 3, 5, 7, 8, 9, 10:
		return true
	default:
		return false
	}
}

// IsXRXD reports whether g is an ex-rights/ex-dividend event (category 1).
func (g Gbbq) IsXRXD() bool {
	return g.Category == 1
}

// KlineCache carries request-time context (period, index-ness) the wire
// response does not repeat, needed to decode volume scaling and the
// up/down-count tail correctly.
type KlineCache struct {
	KlineType KlineType
	IsIndex   bool
}

// TradeCache carries the trading date context needed to turn a trade
// record's time-of-day field into an absolute timestamp.
type TradeCache struct {
	Date string // YYYYMMDD
	Code string
}
