package commission

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// Attribute computes the commission owed for one order total. Orders without
// a code, or with a code that has no mirror entry, earn zero. The same
// function serves the single-order webhook path and the batched sales report.
func Attribute(orderTotal decimal.Decimal, code string, rates map[string]decimal.Decimal) decimal.Decimal {
	if code == "" {
		return decimal.Zero
	}
	rate, ok := rates[code]
	if !ok {
		return decimal.Zero
	}
	return orderTotal.Mul(rate.Div(oneHundred))
}
