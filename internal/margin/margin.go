// Package margin computes net margin per fiscal regime.
//
// Two variants exist and are deliberately not reconciled: Net is the
// order-enrichment formula with the domestic 21% rate baked in (INTRA is a
// flat subtraction, matching how the books are read today), while ForCountry
// is the interactive calculator variant that strips a destination-specific
// VAT rate from the sale leg. The two disagree for INTRA at non-21% rates.
package margin

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tuvalum/margin-service/internal/types"
)

// StandardVAT is the domestic VAT rate baked into the enrichment formulas.
var StandardVAT = decimal.NewFromFloat(0.21)

var one = decimal.NewFromInt(1)

// Net computes the net margin for the order-enrichment path.
//
// A purchase cost of zero means "cost unknown", never "free inventory":
// the margin is forced to zero rather than computed.
func Net(regime types.Regime, salePrice, cost, commission decimal.Decimal) decimal.Decimal {
	if cost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	divisor := one.Add(StandardVAT)

	switch regime {
	case types.RegimeREBU:
		// Tax owed on the realized profit only.
		return salePrice.Sub(cost).Div(divisor).Sub(commission)
	case types.RegimeINTRA:
		// Cost was acquired tax-exclusive under reverse charge; the
		// enrichment path keeps the flat subtraction.
		return salePrice.Sub(cost).Sub(commission)
	default:
		// PRO: both legs carried deductible input tax.
		return salePrice.Div(divisor).Sub(cost.Div(divisor)).Sub(commission)
	}
}

// ForCountry computes the margin for a sale into a specific destination,
// used by the what-if calculator. When the destination VAT rate is zero
// (export, B2B intra-community, certain territories) no domestic tax is owed
// regardless of regime and the formula collapses to a flat subtraction.
func ForCountry(regime types.Regime, salePrice, cost, commission, vatRate decimal.Decimal) decimal.Decimal {
	if cost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	if vatRate.IsZero() {
		return salePrice.Sub(cost).Sub(commission)
	}

	divisor := one.Add(vatRate)

	switch regime {
	case types.RegimeREBU:
		return salePrice.Sub(cost).Div(divisor).Sub(commission)
	case types.RegimeINTRA:
		return salePrice.Div(divisor).Sub(cost).Sub(commission)
	default:
		return salePrice.Div(divisor).Sub(cost.Div(divisor)).Sub(commission)
	}
}

// Simulate returns the margin under all three regimes for the calculator
// screen, using the enrichment formulas with zero commission.
func Simulate(salePrice, cost decimal.Decimal) map[types.Regime]decimal.Decimal {
	return map[types.Regime]decimal.Decimal{
		types.RegimeREBU:  Net(types.RegimeREBU, salePrice, cost, decimal.Zero),
		types.RegimePRO:   Net(types.RegimePRO, salePrice, cost, decimal.Zero),
		types.RegimeINTRA: Net(types.RegimeINTRA, salePrice, cost, decimal.Zero),
	}
}

// ParseRegime resolves a free-text fiscal tag to a regime.
// Absent or unrecognized tags default to PRO.
func ParseRegime(tag string) types.Regime {
	s := strings.ToUpper(tag)
	switch {
	case strings.Contains(s, "REBU"):
		return types.RegimeREBU
	case strings.Contains(s, "INTRA"):
		return types.RegimeINTRA
	default:
		return types.RegimePRO
	}
}
