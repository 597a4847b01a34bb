package compare

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders a price as whole US dollars with digit grouping,
// e.g. 44999.5 becomes "$45,000".
func FormatPrice(price float64) string {
	whole := decimal.NewFromFloat(price).Round(0)
	if whole.IsNegative() {
		return "-$" + usd.Sprintf("%d", whole.Neg().IntPart())
	}
	return "$" + usd.Sprintf("%d", whole.IntPart())
}

// formatNumber prints a measurement with the shortest exact representation.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
