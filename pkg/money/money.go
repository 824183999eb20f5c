// Package money renders monetary amounts for display. Formatting follows
// the en-US conventions the mobile clients expect: currency symbol, digit
// grouping, and the currency's minor-unit precision ("$1,234.50").
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer is safe for concurrent use.
var printer = message.NewPrinter(language.AmericanEnglish)

// symbols maps ISO 4217 codes to the symbol en-US renders them with.
// Codes not listed fall back to "CODE amount".
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "CN¥",
	"KRW": "₩",
	"INR": "₹",
	"AUD": "A$",
	"CAD": "CA$",
	"HKD": "HK$",
	"MXN": "MX$",
	"NZD": "NZ$",
	"BRL": "R$",
	"TRY": "₺",
	"VND": "₫",
}

// Format renders an amount with its currency code as a display string,
// e.g. Format(1234.5, "USD") == "$1,234.50". The amount is rounded half
// away from zero at the currency's minor-unit precision (2 digits for
// USD, 0 for JPY). Unknown currency codes are an error rather than being
// silently formatted as dollars.
func Format(amount float64, code string) (string, error) {
	unit, err := xcurrency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("unknown currency code %q: %w", code, err)
	}

	scale, _ := xcurrency.Cash.Rounding(unit)

	d := decimal.NewFromFloat(amount).Round(int32(scale))
	negative := d.IsNegative()
	abs, _ := d.Abs().Float64()

	formatted := printer.Sprintf("%v", number.Decimal(abs, number.Scale(scale)))

	symbol, ok := symbols[unit.String()]
	if !ok {
		symbol = unit.String() + " "
	}

	if negative {
		return "-" + symbol + formatted, nil
	}
	return symbol + formatted, nil
}

// MustFormat is Format for amounts whose currency is already validated;
// it falls back to a plain code-prefixed rendering instead of failing.
func MustFormat(amount float64, code string) string {
	s, err := Format(amount, code)
	if err != nil {
		return fmt.Sprintf("%s %.2f", code, amount)
	}
	return s
}
