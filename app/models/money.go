package models

import "github.com/shopspring/decimal"

// FormatMoney renders an amount as "<currency> <amount>" with two fraction
// digits, e.g. "KES 40.00".
func FormatMoney(currency string, amount decimal.Decimal) string {
	return currency + " " + amount.StringFixed(2)
}
