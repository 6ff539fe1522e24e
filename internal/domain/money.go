package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// VND is the currency the backend denominates every price in.
var VND = currency.MustParseISO("VND")

var viPrinter = message.NewPrinter(language.Vietnamese)

// FormatVND renders an amount the way the storefront displays prices,
// e.g. "1.250.000 d" for 1250000.
func FormatVND(amount decimal.Decimal) string {
	return viPrinter.Sprintf("%v d", number.Decimal(amount.InexactFloat64(), number.MaxFractionDigits(0)))
}
