// Package commission computes marketplace fees from a declarative schedule
// table. Adding a marketplace is a data change, not a code change.
package commission

import (
	"github.com/shopspring/decimal"

	"github.com/tuvalum/margin-service/internal/currency"
	"github.com/tuvalum/margin-service/internal/types"
)

// Schedule describes one marketplace's fee formula: a percentage of the
// local-currency order value with an optional cap. Caps are denominated in
// the marketplace's settlement currencies; CapDefault applies to any other
// currency. A schedule with no caps is uncapped.
type Schedule struct {
	Percent    decimal.Decimal
	Caps       map[string]decimal.Decimal
	CapDefault decimal.Decimal // zero means uncapped when Caps is empty
}

var (
	pct6  = decimal.NewFromFloat(0.06)
	pct10 = decimal.NewFromFloat(0.10)
	pct11 = decimal.NewFromFloat(0.11)
)

// schedules holds the per-marketplace fee table, keyed by the display name
// produced by the order classifier.
var schedules = map[string]Schedule{
	"Decathlon": {
		Percent:    pct10,
		CapDefault: decimal.NewFromInt(400),
	},
	"Alltricks": {
		Percent: pct11,
		Caps: map[string]decimal.Decimal{
			"EUR": decimal.NewFromInt(500),
			"GBP": decimal.NewFromInt(450),
			"PLN": decimal.NewFromInt(2200),
			"CZK": decimal.NewFromInt(12500),
		},
		CapDefault: decimal.NewFromInt(500),
	},
	"Campsider": {Percent: pct10},
	"Bikeroom":  {Percent: pct10},
	"Buycycle":  {Percent: pct6},
}

// fallbackSchedule applies to marketplaces with no negotiated schedule,
// including the "Other Marketplace" sentinel. Flat 10%, uncapped; pending
// product-owner confirmation.
var fallbackSchedule = Schedule{Percent: pct10}

// Fee computes the marketplace commission for an order and returns it in EUR.
// The percentage and cap apply to the local-currency amount; the resulting
// fee is then currency-normalized. Non-marketplace channels pay no fee.
func Fee(channel types.Channel, marketplace string, localAmount decimal.Decimal, currencyCode string) decimal.Decimal {
	if channel != types.ChannelMarketplace {
		return decimal.Zero
	}

	sched, ok := schedules[marketplace]
	if !ok {
		sched = fallbackSchedule
	}

	fee := localAmount.Mul(sched.Percent)

	if cap, capped := sched.capFor(currencyCode); capped && fee.GreaterThan(cap) {
		fee = cap
	}

	return currency.ToEUR(fee, currencyCode)
}

func (s Schedule) capFor(currencyCode string) (decimal.Decimal, bool) {
	if cap, ok := s.Caps[currencyCode]; ok {
		return cap, true
	}
	if !s.CapDefault.IsZero() {
		return s.CapDefault, true
	}
	return decimal.Zero, false
}

// Marketplaces returns the marketplace names with a negotiated schedule.
func Marketplaces() []string {
	names := make([]string, 0, len(schedules))
	for name := range schedules {
		names = append(names, name)
	}
	return names
}
