// Package format renders monetary amounts for display.
package format

import (
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a euro sign and thousands separators (e.g., "-€1,234.56").
func Currency(amount float64) string {
	rounded := roundCurrency(amount)
	formatted := formatPositiveCurrency(rounded.Abs())
	if rounded.IsNegative() {
		return "-" + constants.CurrencySymbol + formatted
	}
	return constants.CurrencySymbol + formatted
}

// Plain returns the amount rounded to cents with no separators (e.g., "-1234.56"),
// suitable for CSV cells.
func Plain(amount float64) string {
	return roundCurrency(amount).StringFixed(constants.CurrencyDecimalPlaces)
}

// roundCurrency rounds half away from zero, so 0.005 becomes 0.01.
func roundCurrency(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(constants.CurrencyDecimalPlaces)
}

func formatPositiveCurrency(value decimal.Decimal) string {
	formatted := value.StringFixed(constants.CurrencyDecimalPlaces)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
