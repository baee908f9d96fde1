package currency

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultCode = "USD"

type Currency struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

var catalogue = map[string]Currency{
	"USD": {Code: "USD", Name: "US Dollar", Symbol: "$", Decimals: 2},
	"EUR": {Code: "EUR", Name: "Euro", Symbol: "€", Decimals: 2},
	"GBP": {Code: "GBP", Name: "British Pound", Symbol: "£", Decimals: 2},
	"INR": {Code: "INR", Name: "Indian Rupee", Symbol: "₹", Decimals: 2},
	"AED": {Code: "AED", Name: "UAE Dirham", Symbol: "AED ", Decimals: 2},
	"SAR": {Code: "SAR", Name: "Saudi Riyal", Symbol: "SAR ", Decimals: 2},
	"PKR": {Code: "PKR", Name: "Pakistani Rupee", Symbol: "Rs ", Decimals: 2},
	"KWD": {Code: "KWD", Name: "Kuwaiti Dinar", Symbol: "KD ", Decimals: 3},
	"QAR": {Code: "QAR", Name: "Qatari Riyal", Symbol: "QR ", Decimals: 2},
	"KES": {Code: "KES", Name: "Kenyan Shilling", Symbol: "KSh ", Decimals: 2},
	"TZS": {Code: "TZS", Name: "Tanzanian Shilling", Symbol: "TSh ", Decimals: 0},
	"JPY": {Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Decimals: 0},
	"KZT": {Code: "KZT", Name: "Kazakhstani Tenge", Symbol: "₸", Decimals: 2},
}

// All returns the catalogue sorted by code.
func All() []Currency {
	out := make([]Currency, 0, len(catalogue))
	for _, c := range catalogue {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func Lookup(code string) (Currency, bool) {
	c, ok := catalogue[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// MustLookup falls back to USD for unknown codes.
func MustLookup(code string) Currency {
	if c, ok := Lookup(code); ok {
		return c
	}
	return catalogue[DefaultCode]
}

// Format renders amount with the currency symbol, thousands separators and
// the currency's number of decimals, e.g. "$1,234.50".
func (c Currency) Format(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	s := amount.Abs().StringFixed(c.Decimals)

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(c.Symbol)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

// Format is a shortcut for MustLookup(code).Format(amount).
func Format(amount decimal.Decimal, code string) string {
	return MustLookup(code).Format(amount)
}
