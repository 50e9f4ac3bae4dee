// Package currency converts listed transaction currencies to EUR using a
// static rate table. Rates are multipliers (1 unit of currency in EUR).
package currency

import "github.com/shopspring/decimal"

// rates holds the EUR multiplier per currency code. Static by design: the
// dashboard tolerates day-scale staleness and must not depend on an FX feed.
var rates = map[string]decimal.Decimal{
	"EUR": decimal.NewFromFloat(1.0),
	"HUF": decimal.NewFromFloat(0.0025),
	"PLN": decimal.NewFromFloat(0.23),
	"GBP": decimal.NewFromFloat(1.16),
	"USD": decimal.NewFromFloat(0.92),
	"DKK": decimal.NewFromFloat(0.13),
	"SEK": decimal.NewFromFloat(0.09),
	"CZK": decimal.NewFromFloat(0.04),
}

// Rate returns the EUR multiplier for a currency code.
// Unknown codes fall back to 1.0 — an accepted approximation so a new
// settlement currency degrades to face value instead of dropping orders.
func Rate(code string) decimal.Decimal {
	if r, ok := rates[code]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}

// ToEUR converts an amount in the given currency to EUR.
func ToEUR(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Mul(Rate(code))
}

// Known reports whether the code has an explicit rate.
func Known(code string) bool {
	_, ok := rates[code]
	return ok
}
