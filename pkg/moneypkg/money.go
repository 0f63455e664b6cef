// Package moneypkg provides common money amount helpers.
//
// Amounts travel as decimal strings with two-decimal scale, matching
// account balances on the ledger service.
package moneypkg

import "github.com/shopspring/decimal"

// Format renders an amount with the fixed two-decimal display scale.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatString formats an amount string if it parses, otherwise returns
// it unchanged for display.
func FormatString(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}

	return Format(d)
}
