package domain

import (
	"fmt"
	"strings"
)

// Currency describes a supported display currency.
type Currency struct {
	Code   string
	Symbol string
	Name   string
}

// currencies is the fixed supported set. USD first: it is the bootstrap
// default for new preferences.
var currencies = []Currency{
	{"USD", "$", "US Dollar"},
	{"EUR", "€", "Euro"},
	{"GBP", "£", "British Pound"},
	{"JPY", "¥", "Japanese Yen"},
	{"CAD", "C$", "Canadian Dollar"},
	{"AUD", "A$", "Australian Dollar"},
	{"CHF", "Fr", "Swiss Franc"},
	{"CNY", "¥", "Chinese Yuan"},
	{"INR", "₹", "Indian Rupee"},
	{"KRW", "₩", "South Korean Won"},
	{"BRL", "R$", "Brazilian Real"},
	{"MXN", "$", "Mexican Peso"},
	{"SGD", "S$", "Singapore Dollar"},
	{"HKD", "HK$", "Hong Kong Dollar"},
	{"NOK", "kr", "Norwegian Krone"},
	{"SEK", "kr", "Swedish Krona"},
	{"DKK", "kr", "Danish Krone"},
	{"PLN", "zł", "Polish Zloty"},
	{"TRY", "₺", "Turkish Lira"},
	{"RUB", "₽", "Russian Ruble"},
	{"THB", "฿", "Thai Baht"},
}

// Currencies returns the supported currency table.
func Currencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// FindCurrency looks up a currency by code (case-insensitive).
func FindCurrency(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// zeroDecimal lists currencies conventionally displayed without decimals.
func (c Currency) zeroDecimal() bool {
	return c.Code == "JPY" || c.Code == "KRW"
}

// FormatAmount renders an amount in the currency's display convention:
// two decimals below 1000, thousands separators up to 100K, then K/M
// abbreviations. JPY and KRW are rounded to whole units.
func (c Currency) FormatAmount(amount float64) string {
	if c.zeroDecimal() {
		rounded := float64(int64(amount + 0.5))
		switch {
		case rounded >= 10_000_000:
			return fmt.Sprintf("%s%.0fM", c.Symbol, rounded/1_000_000)
		case rounded >= 1_000_000:
			return fmt.Sprintf("%s%.1fM", c.Symbol, rounded/1_000_000)
		case rounded >= 100_000:
			return fmt.Sprintf("%s%.0fK", c.Symbol, rounded/1_000)
		}
		return c.Symbol + groupThousands(fmt.Sprintf("%.0f", rounded))
	}

	switch {
	case amount >= 10_000_000:
		return fmt.Sprintf("%s%.0fM", c.Symbol, amount/1_000_000)
	case amount >= 1_000_000:
		return fmt.Sprintf("%s%.1fM", c.Symbol, amount/1_000_000)
	case amount >= 100_000:
		return fmt.Sprintf("%s%.0fK", c.Symbol, amount/1_000)
	case amount >= 1_000:
		s := fmt.Sprintf("%.2f", amount)
		dot := strings.IndexByte(s, '.')
		return c.Symbol + groupThousands(s[:dot]) + s[dot:]
	}
	return fmt.Sprintf("%s%.2f", c.Symbol, amount)
}

// groupThousands inserts comma separators into a digit string.
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(n + n/3)
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
