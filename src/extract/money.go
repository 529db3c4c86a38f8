package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney strips everything but digits, '.' and '-' and parses the rest.
// "$1,234.50" -> 1234.5
func ParseMoney(text string) (float64, bool) {
	d, ok := ParseMoneyDecimal(text)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// ParseMoneyDecimal is ParseMoney without the float conversion.
func ParseMoneyDecimal(text string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
