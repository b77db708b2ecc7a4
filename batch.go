package tdx

import (
	"errors"

	"github.com/samarthkathal/tdx-go/proto"
)

const (
	codeBatchSize         = 1000
	klineBatchSize        = 800
	tradeBatchSize        = 1800
	historyTradeBatchSize = 2000
)

// GetCodeAll fetches every Stock record on exchange, paging codeBatchSize
// rows at a time starting from 0.
func (c *Connection) GetCodeAll(exchange proto.Exchange) ([]proto.Stock, error) {
	return c.GetCodeAllFrom(exchange, 0)
}

// GetCodeAllFrom fetches every Stock record on exchange starting at fromStart,
// in natural (ascending) order.
func (c *Connection) GetCodeAllFrom(exchange proto.Exchange, fromStart uint16) ([]proto.Stock, error) {
	var all []proto.Stock
	start := fromStart
	for {
		count, stocks, err := c.GetCode(exchange, start)
		if err != nil {
			return nil, wrapMarketError(exchange, err)
		}
		all = append(all, stocks...)
		if count < codeBatchSize {
			break
		}
		start += codeBatchSize
	}
	return all, nil
}

// GetKlineAll fetches the full bar history for a prefixed symbol, paging
// klineBatchSize bars per wire call starting from 0.
func (c *Connection) GetKlineAll(klineType proto.KlineType, symbol string) ([]proto.KlineRow, error) {
	return c.GetKlineAllFrom(klineType, symbol, 0)
}

// GetKlineAllFrom fetches the full bar history starting at fromStart. Each
// wire batch holds its bars oldest-first, and batch N is strictly older than
// batch N-1; prepending each batch ahead of the accumulator therefore leaves
// the final slice oldest-first overall.
func (c *Connection) GetKlineAllFrom(klineType proto.KlineType, symbol string, fromStart uint16) ([]proto.KlineRow, error) {
	var all []proto.KlineRow
	start := fromStart
	for {
		rows, err := c.GetKline(klineType, symbol, start, klineBatchSize)
		if err != nil {
			return nil, err
		}
		all = append(rows, all...)
		if len(rows) < klineBatchSize {
			break
		}
		start += klineBatchSize
	}
	return all, nil
}

// GetKlineAllUntil fetches bars starting from 0, newest batch first, keeping
// a batch that is accepted by keep(row) and stopping as soon as a batch's
// newest-to-oldest scan hits the first rejected row - everything strictly
// older than that row is assumed to also fail keep, per the wire's time
// ordering, so the scan cuts there rather than continuing to page further.
func (c *Connection) GetKlineAllUntil(klineType proto.KlineType, symbol string, keep func(proto.KlineRow) bool) ([]proto.KlineRow, error) {
	var all []proto.KlineRow
	start := uint16(0)
	for {
		rows, err := c.GetKline(klineType, symbol, start, klineBatchSize)
		if err != nil {
			return nil, err
		}

		cut := 0
		fullyMatched := true
		for i := len(rows) - 1; i >= 0; i-- {
			if !keep(rows[i]) {
				cut = i + 1
				fullyMatched = false
				break
			}
		}

		if fullyMatched {
			all = append(rows, all...)
		} else {
			all = append(rows[cut:], all...)
			break
		}

		if len(rows) < klineBatchSize {
			break
		}
		start += klineBatchSize
	}
	return all, nil
}

// GetTradeAll fetches every same-day tick trade for a prefixed symbol,
// paging tradeBatchSize rows at a time starting from 0, prepending each new
// (older) batch ahead of the accumulator.
func (c *Connection) GetTradeAll(symbol string) ([]proto.Trade, error) {
	return c.GetTradeAllFrom(symbol, 0)
}

// GetTradeAllFrom is GetTradeAll starting at fromStart.
func (c *Connection) GetTradeAllFrom(symbol string, fromStart uint16) ([]proto.Trade, error) {
	var all []proto.Trade
	start := fromStart
	for {
		trades, err := c.GetTrade(symbol, start, tradeBatchSize)
		if err != nil {
			return nil, err
		}
		all = append(trades, all...)
		if len(trades) < tradeBatchSize {
			break
		}
		start += tradeBatchSize
	}
	return all, nil
}

// GetHistoryTradeDay fetches every tick trade for a prefixed symbol on a past
// trading date, paging historyTradeBatchSize rows at a time starting from 0.
func (c *Connection) GetHistoryTradeDay(date, symbol string) ([]proto.Trade, error) {
	return c.GetHistoryTradeDayFrom(date, symbol, 0)
}

// GetHistoryTradeDayFrom is GetHistoryTradeDay starting at fromStart.
func (c *Connection) GetHistoryTradeDayFrom(date, symbol string, fromStart uint16) ([]proto.Trade, error) {
	var all []proto.Trade
	start := fromStart
	for {
		trades, err := c.GetHistoryTrade(date, symbol, start, historyTradeBatchSize)
		if err != nil {
			return nil, err
		}
		all = append(trades, all...)
		if len(trades) < historyTradeBatchSize {
			break
		}
		start += historyTradeBatchSize
	}
	return all, nil
}

// GetMarketStocks returns every ordinary-equity code listed on exchange.
func (c *Connection) GetMarketStocks(exchange proto.Exchange) ([]proto.Stock, error) {
	return c.filterMarketCodes(exchange, proto.IsStock)
}

// GetMarketETFs returns every exchange-traded-fund code listed on exchange.
func (c *Connection) GetMarketETFs(exchange proto.Exchange) ([]proto.Stock, error) {
	return c.filterMarketCodes(exchange, proto.IsETF)
}

// GetMarketIndexes returns every market-index code listed on exchange.
func (c *Connection) GetMarketIndexes(exchange proto.Exchange) ([]proto.Stock, error) {
	return c.filterMarketCodes(exchange, proto.IsIndex)
}

func (c *Connection) filterMarketCodes(exchange proto.Exchange, keep func(string) bool) ([]proto.Stock, error) {
	stocks, err := c.GetCodeAll(exchange)
	if err != nil {
		return nil, err
	}
	out := stocks[:0:0]
	for _, s := range stocks {
		if keep(exchange.String() + s.Code) {
			out = append(out, s)
		}
	}
	return out, nil
}

// allExchanges is the fixed SZ, SH, BJ iteration order used by the
// market-wide Get*All helpers; BJ is the one exchange some TDX servers
// reject outright, so it is always tried last and its failure is skippable.
var allExchanges = []proto.Exchange{proto.SZ, proto.SH, proto.BJ}

// AllStocks returns every ordinary-equity code across SZ, SH, and BJ,
// silently skipping BJ when the server reports it unsupported.
func (c *Connection) AllStocks() ([]proto.Stock, error) {
	return c.allMarketCodes(c.GetMarketStocks)
}

// AllETFs returns every ETF code across SZ, SH, and BJ, silently skipping BJ
// when the server reports it unsupported.
func (c *Connection) AllETFs() ([]proto.Stock, error) {
	return c.allMarketCodes(c.GetMarketETFs)
}

// AllIndexes returns every index code across SZ, SH, and BJ, silently
// skipping BJ when the server reports it unsupported.
func (c *Connection) AllIndexes() ([]proto.Stock, error) {
	return c.allMarketCodes(c.GetMarketIndexes)
}

func (c *Connection) allMarketCodes(fetch func(proto.Exchange) ([]proto.Stock, error)) ([]proto.Stock, error) {
	var all []proto.Stock
	for _, ex := range allExchanges {
		stocks, err := fetch(ex)
		if err != nil {
			if IsUnsupportedMarket(err) {
				continue
			}
			return nil, err
		}
		all = append(all, stocks...)
	}
	return all, nil
}

// wrapMarketError remaps a bare I/O failure on the BJ exchange to
// KindUnsupportedMarket: some TDX servers simply refuse Beijing-exchange
// queries at the transport level rather than returning an empty payload.
func wrapMarketError(exchange proto.Exchange, err error) error {
	if exchange != proto.BJ {
		return err
	}
	var pe *ProtocolError
	if errors.As(err, &pe) && pe.Kind == KindIO {
		return newProtocolError(KindUnsupportedMarket, pe.Op,
			errors.New("BJ exchange query failed; server may not support Beijing-exchange data"))
	}
	return err
}
