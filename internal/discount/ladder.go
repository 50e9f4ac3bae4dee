// Package discount recommends per-item markdowns following the time-based
// ladder policy, bounded by a margin safety buffer.
package discount

import (
	"github.com/shopspring/decimal"
)

// ladder maps stock-age thresholds to target markdowns in EUR. Later
// thresholds replace earlier ones; this is a step function, not additive.
var ladder = []struct {
	MinAgeDays int
	Target     decimal.Decimal
}{
	{150, decimal.NewFromInt(200)},
	{120, decimal.NewFromInt(150)},
	{90, decimal.NewFromInt(120)},
	{75, decimal.NewFromInt(80)},
	{45, decimal.NewFromInt(50)},
}

var (
	// safetyBuffer is the slice of margin that must survive the markdown.
	safetyBuffer = decimal.NewFromInt(50)
	// clearanceAgeDays is the age past which the buffer is waived: deep-aged
	// stock may be discounted into the buffer to clear it.
	clearanceAgeDays = 365
	roundUnit        = decimal.NewFromInt(10)
)

// Recommend returns the markdown for an item given its stock age and current
// margin. Restricted items (deposit-owned stock) are never marked down.
// The result is a non-negative multiple of 10 and never exceeds the margin
// net of the applicable buffer.
func Recommend(ageDays int, currentMargin decimal.Decimal, restricted bool) decimal.Decimal {
	if restricted {
		return decimal.Zero
	}

	target := decimal.Zero
	for _, step := range ladder {
		if ageDays >= step.MinAgeDays {
			target = step.Target
			break
		}
	}
	if target.IsZero() {
		return decimal.Zero
	}

	buffer := safetyBuffer
	if ageDays > clearanceAgeDays {
		buffer = decimal.Zero
	}

	capacity := currentMargin.Sub(buffer)
	if capacity.IsNegative() {
		capacity = decimal.Zero
	}

	rec := decimal.Min(target, capacity)

	// Round down to the unit: rounding up could spend past capacity.
	return rec.Div(roundUnit).Floor().Mul(roundUnit)
}

// Buffer returns the safety buffer applicable at a given age, exposed for
// the what-if calculator screen.
func Buffer(ageDays int) decimal.Decimal {
	if ageDays > clearanceAgeDays {
		return decimal.Zero
	}
	return safetyBuffer
}
