package proto

import (
	"strconv"

	"github.com/samarthkathal/tdx-go/codec"
)

// quoteRequestPrefix is the fixed 8-byte header every Quote request opens with.
var quoteRequestPrefix = []byte{0x05, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

// EncodeQuoteRequest builds a Quote request for a batch of prefixed symbols
// ("sz000001", "sh600008", ...).
func EncodeQuoteRequest(symbols []string) ([]byte, error) {
	w := codec.NewWriter()
	w.PutBytes(quoteRequestPrefix)
	w.PutU16(uint16(len(symbols)))

	for _, sym := range symbols {
		ex, digits, err := ParseSymbol(sym)
		if err != nil {
			return nil, err
		}
		w.PutByte(byte(ex))
		w.PutBytes([]byte(digits))
	}

	return w.Bytes(), nil
}

// DecodeQuoteResponse decodes a Quote response into per-symbol snapshots.
func DecodeQuoteResponse(data []byte) ([]QuoteInfo, error) {
	if len(data) < 4 {
		return nil, newShortRead(len(data), 4)
	}

	r := codec.NewReader(data)
	if err := r.Skip(2); err != nil { // version/tag, ignored
		return nil, err
	}
	count, err := r.U16()
	if err != nil {
		return nil, err
	}

	quotes := make([]QuoteInfo, 0, count)
	for i := 0; i < int(count); i++ {
		q, err := decodeOneQuote(r)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func decodeOneQuote(r *codec.Reader) (QuoteInfo, error) {
	var q QuoteInfo

	exByte, err := r.Bytes(1)
	if err != nil {
		return q, err
	}
	q.Exchange = Exchange(exByte[0])

	code, err := r.GBKString(6)
	if err != nil {
		return q, err
	}
	q.Code = code

	q.Active1, err = r.U16()
	if err != nil {
		return q, err
	}

	closeD, err := r.Varint()
	if err != nil {
		return q, err
	}
	lastD, err := r.Varint()
	if err != nil {
		return q, err
	}
	openD, err := r.Varint()
	if err != nil {
		return q, err
	}
	highD, err := r.Varint()
	if err != nil {
		return q, err
	}
	lowD, err := r.Varint()
	if err != nil {
		return q, err
	}

	closePrice := codec.Price(closeD * 10)
	q.K = K{
		Close: closePrice,
		Last:  closePrice + codec.Price(lastD*10),
		Open:  closePrice + codec.Price(openD*10),
		High:  closePrice + codec.Price(highD*10),
		Low:   closePrice + codec.Price(lowD*10),
	}

	serverTimeRaw, err := r.Varint()
	if err != nil {
		return q, err
	}
	q.ServerTime = formatServerTime(serverTimeRaw)

	if _, err := r.Varint(); err != nil { // reserved1, discarded
		return q, err
	}

	totalHand, err := r.Varint()
	if err != nil {
		return q, err
	}
	q.TotalHand = totalHand

	intuition, err := r.Varint()
	if err != nil {
		return q, err
	}
	q.Intuition = intuition

	q.Amount, err = r.Volume2()
	if err != nil {
		return q, err
	}

	insideDish, err := r.Varint()
	if err != nil {
		return q, err
	}
	q.InsideDish = insideDish

	outerDisc, err := r.Varint()
	if err != nil {
		return q, err
	}
	q.OuterDisc = outerDisc

	if _, err := r.Varint(); err != nil { // reserved2
		return q, err
	}
	if _, err := r.Varint(); err != nil { // reserved3
		return q, err
	}

	for i := 0; i < 5; i++ {
		buyD, err := r.Varint()
		if err != nil {
			return q, err
		}
		sellD, err := r.Varint()
		if err != nil {
			return q, err
		}
		buyNum, err := r.Varint()
		if err != nil {
			return q, err
		}
		sellNum, err := r.Varint()
		if err != nil {
			return q, err
		}

		q.BuyLevel[i] = PriceLevel{Buy: true, Price: closePrice + codec.Price(buyD*10), Number: buyNum}
		q.SellLevel[i] = PriceLevel{Buy: false, Price: closePrice + codec.Price(sellD*10), Number: sellNum}
	}

	if err := r.Skip(2); err != nil { // 2 reserved bytes
		return q, err
	}

	for i := 0; i < 4; i++ {
		if _, err := r.Varint(); err != nil {
			return q, err
		}
	}

	rateRaw, err := r.U16()
	if err != nil {
		return q, err
	}
	q.Rate = float64(rateRaw) / 100.0

	q.Active2, err = r.U16()
	if err != nil {
		return q, err
	}

	return q, nil
}

func formatServerTime(raw int32) string {
	return strconv.FormatInt(int64(raw), 10)
}
