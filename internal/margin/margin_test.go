package margin

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tuvalum/margin-service/internal/types"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestNetREBU(t *testing.T) {
	// (2000 - 1200) / 1.21 = 661.16
	got := Net(types.RegimeREBU, d(2000), d(1200), decimal.Zero)
	assert.Equal(t, "661.16", got.Round(2).String())
}

func TestNetPRO(t *testing.T) {
	// 2000/1.21 - 1000/1.21 = 826.45
	got := Net(types.RegimePRO, d(2000), d(1000), decimal.Zero)
	assert.Equal(t, "826.45", got.Round(2).String())
}

func TestNetINTRA(t *testing.T) {
	got := Net(types.RegimeINTRA, d(2000), d(1100), d(100))
	assert.Equal(t, "800", got.String())
}

func TestNetCommissionReducesMargin(t *testing.T) {
	withFee := Net(types.RegimeREBU, d(2000), d(1200), d(200))
	without := Net(types.RegimeREBU, d(2000), d(1200), decimal.Zero)
	assert.True(t, withFee.Equal(without.Sub(d(200))))
}

func TestNetUnknownCostForcesZero(t *testing.T) {
	for _, regime := range []types.Regime{types.RegimeREBU, types.RegimePRO, types.RegimeINTRA} {
		got := Net(regime, d(5000), decimal.Zero, d(100))
		assert.True(t, got.IsZero(), "regime %s: got %s", regime, got)
	}
}

func TestNetMayBeNegative(t *testing.T) {
	got := Net(types.RegimeINTRA, d(1000), d(1200), decimal.Zero)
	assert.True(t, got.IsNegative())
}

func TestForCountryZeroVATCollapsesToFlat(t *testing.T) {
	for _, regime := range []types.Regime{types.RegimeREBU, types.RegimePRO, types.RegimeINTRA} {
		got := ForCountry(regime, d(2000), d(1200), decimal.Zero, decimal.Zero)
		assert.Equal(t, "800", got.String(), "regime %s", regime)
	}
}

func TestForCountryStripsDestinationVAT(t *testing.T) {
	// PRO at 19% German VAT: 2000/1.19 - 1000/1.19 = 840.34
	got := ForCountry(types.RegimePRO, d(2000), d(1000), decimal.Zero, d(0.19))
	assert.Equal(t, "840.34", got.Round(2).String())
}

func TestForCountryINTRADivergesFromNet(t *testing.T) {
	// The enrichment path ignores destination VAT for INTRA; the calculator
	// strips it from the sale leg. They must differ at non-zero rates.
	sale, cost := d(2000), d(1000)
	flat := Net(types.RegimeINTRA, sale, cost, decimal.Zero)
	stripped := ForCountry(types.RegimeINTRA, sale, cost, decimal.Zero, StandardVAT)
	assert.False(t, flat.Equal(stripped))
	assert.Equal(t, "652.89", stripped.Round(2).String())
}

func TestSimulate(t *testing.T) {
	sims := Simulate(d(2000), d(1200))
	assert.Len(t, sims, 3)
	assert.Equal(t, "661.16", sims[types.RegimeREBU].Round(2).String())
	assert.Equal(t, "661.16", sims[types.RegimePRO].Round(2).String())
	assert.Equal(t, "800", sims[types.RegimeINTRA].String())
}

func TestParseRegime(t *testing.T) {
	assert.Equal(t, types.RegimeREBU, ParseRegime("REBU"))
	assert.Equal(t, types.RegimeREBU, ParseRegime("Régimen rebu especial"))
	assert.Equal(t, types.RegimeINTRA, ParseRegime("intracomunitario"))
	assert.Equal(t, types.RegimePRO, ParseRegime("PRO"))
	assert.Equal(t, types.RegimePRO, ParseRegime("GENERAL"))
	assert.Equal(t, types.RegimePRO, ParseRegime(""))
}
