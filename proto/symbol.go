package proto

import (
	"fmt"
	"strings"
)

// ParseSymbol splits a prefixed symbol ("sz000001") into its Exchange and
// bare 6-character code. The input is lowercased first, so "SZ000001" is
// accepted; an unknown exchange prefix or a length other than 8 is an error.
// The six code characters are not checked to be digits.
func ParseSymbol(symbol string) (Exchange, string, error) {
	s := strings.ToLower(symbol)
	if len(s) != 8 {
		return 0, "", fmt.Errorf("invalid symbol %q: want 2-letter prefix plus 6-digit code", symbol)
	}
	ex, ok := ExchangeFromPrefix(s[:2])
	if !ok {
		return 0, "", fmt.Errorf("invalid symbol %q: unknown exchange prefix", symbol)
	}
	return ex, s[2:], nil
}

// AddPrefix prepends the inferred two-letter exchange prefix to a bare code,
// or returns code unchanged if it already carries one. Inference: leading
// '6' or '9' -> sh; '0', '2', or '3' -> sz; '4' or '8' -> bj; otherwise sz.
func AddPrefix(code string) string {
	c := strings.ToLower(code)
	if strings.HasPrefix(c, "sh") || strings.HasPrefix(c, "sz") || strings.HasPrefix(c, "bj") {
		return c
	}
	switch {
	case strings.HasPrefix(c, "6"), strings.HasPrefix(c, "9"):
		return "sh" + c
	case strings.HasPrefix(c, "0"), strings.HasPrefix(c, "3"), strings.HasPrefix(c, "2"):
		return "sz" + c
	case strings.HasPrefix(c, "4"), strings.HasPrefix(c, "8"):
		return "bj" + c
	default:
		return "sz" + c
	}
}

// IsStock classifies a prefixed or bare code by leading digits per exchange.
func IsStock(code string) bool {
	c := AddPrefix(code)
	if len(c) < 8 {
		return false
	}
	num := c[2:]
	switch c[:2] {
	case "sh":
		return strings.HasPrefix(num, "6") || strings.HasPrefix(num, "688")
	case "sz":
		return strings.HasPrefix(num, "0") || strings.HasPrefix(num, "3")
	case "bj":
		return strings.HasPrefix(num, "4") || strings.HasPrefix(num, "8")
	default:
		return false
	}
}

// IsETF classifies a prefixed or bare code as an exchange-traded fund.
func IsETF(code string) bool {
	c := AddPrefix(code)
	if len(c) < 8 {
		return false
	}
	num := c[2:]
	switch c[:2] {
	case "sh":
		return strings.HasPrefix(num, "51") || strings.HasPrefix(num, "56") || strings.HasPrefix(num, "58")
	case "sz":
		return strings.HasPrefix(num, "15") || strings.HasPrefix(num, "16")
	default:
		return false
	}
}

// IsIndex classifies a prefixed or bare code as a market index.
func IsIndex(code string) bool {
	c := AddPrefix(code)
	if len(c) < 8 {
		return false
	}
	num := c[2:]
	switch c[:2] {
	case "sh":
		return strings.HasPrefix(num, "000") || strings.HasPrefix(num, "880")
	case "sz":
		return strings.HasPrefix(num, "399")
	case "bj":
		return strings.HasPrefix(num, "899")
	default:
		return false
	}
}
