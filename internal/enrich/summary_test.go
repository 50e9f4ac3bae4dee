package enrich

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuvalum/margin-service/internal/types"
)

func enriched(total, margin int64, mutate ...func(*types.EnrichedOrder)) types.EnrichedOrder {
	o := types.EnrichedOrder{
		FinancialStatus: "paid",
		Channel:         types.ChannelDirect,
		Country:         "ES",
		Brand:           "ORBEA",
		Category:        types.CategoryRoad,
		TotalEUR:        decimal.NewFromInt(total),
		NetMargin:       decimal.NewFromInt(margin),
		StockAgeDays:    40,
	}
	for _, m := range mutate {
		m(&o)
	}
	return o
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Orders)
	assert.True(t, s.Revenue.IsZero())
	assert.True(t, s.MarginPct.IsZero())
	assert.True(t, s.AvgMargin.IsZero())
	assert.Empty(t, s.ByChannel)
}

func TestSummarizeTotalsAndAverages(t *testing.T) {
	s := Summarize([]types.EnrichedOrder{
		enriched(2000, 600),
		enriched(1000, 200, func(o *types.EnrichedOrder) { o.StockAgeDays = 80 }),
	})

	assert.Equal(t, 2, s.Orders)
	assert.True(t, s.Revenue.Equal(decimal.NewFromInt(3000)))
	assert.True(t, s.Margin.Equal(decimal.NewFromInt(800)))
	assert.True(t, s.AvgPrice.Equal(decimal.NewFromInt(1500)))
	assert.True(t, s.AvgMargin.Equal(decimal.NewFromInt(400)))
	assert.True(t, s.AvgRotation.Equal(decimal.NewFromInt(60)))
	// 800 / 3000 of revenue kept as margin.
	assert.True(t, s.MarginPct.Equal(decimal.NewFromFloat(26.67)), "got %s", s.MarginPct)
}

func TestSummarizeCountsPendingSeparately(t *testing.T) {
	s := Summarize([]types.EnrichedOrder{
		enriched(2000, 600),
		enriched(1500, 300, func(o *types.EnrichedOrder) { o.FinancialStatus = "pending" }),
	})

	assert.Equal(t, 1, s.Orders)
	assert.Equal(t, 1, s.Pending)
	// Pending revenue does not count.
	assert.True(t, s.Revenue.Equal(decimal.NewFromInt(2000)))
}

func TestSummarizeBucketsByDimension(t *testing.T) {
	s := Summarize([]types.EnrichedOrder{
		enriched(2000, 600),
		enriched(3000, 700, func(o *types.EnrichedOrder) {
			o.Channel = types.ChannelMarketplace
			o.Marketplace = "Decathlon"
			o.Country = "FR"
			o.Brand = "CUBE"
			o.Category = types.CategoryMTB
		}),
	})

	require.Len(t, s.ByChannel, 2)
	// Sorted by revenue, marketplace first.
	assert.Equal(t, string(types.ChannelMarketplace), s.ByChannel[0].Key)
	assert.True(t, s.ByChannel[0].Revenue.Equal(decimal.NewFromInt(3000)))

	require.Len(t, s.ByMarketplace, 1)
	assert.Equal(t, "Decathlon", s.ByMarketplace[0].Key)

	require.Len(t, s.ByCountry, 2)
	require.Len(t, s.ByBrand, 2)
	require.Len(t, s.ByCategory, 2)
}

func TestSummarizePriceBands(t *testing.T) {
	s := Summarize([]types.EnrichedOrder{
		enriched(800, 100),
		enriched(1200, 200),
		enriched(2000, 300),
		enriched(2600, 400),
		enriched(5000, 500),
	})

	require.Len(t, s.ByPriceBand, 5)
	// Bands keep their fixed order, not revenue order.
	labels := make([]string, 0, len(s.ByPriceBand))
	for _, b := range s.ByPriceBand {
		labels = append(labels, b.Key)
	}
	assert.Equal(t, []string{"<1k", "1k-1.5k", "1.5k-2.5k", "2.5k-4k", ">4k"}, labels)
}
