package enrich

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tuvalum/margin-service/internal/types"
)

// priceBands are the retail price buckets used by the revenue distribution.
var priceBands = []struct {
	Label string
	Max   decimal.Decimal // exclusive upper bound; zero means unbounded
}{
	{"<1k", decimal.NewFromInt(1000)},
	{"1k-1.5k", decimal.NewFromInt(1500)},
	{"1.5k-2.5k", decimal.NewFromInt(2500)},
	{"2.5k-4k", decimal.NewFromInt(4000)},
	{">4k", decimal.Decimal{}},
}

// Bucket is one aggregation row: a key with order count, revenue and margin.
type Bucket struct {
	Key     string          `json:"key"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenueEur"`
	Margin  decimal.Decimal `json:"marginEur"`
}

// Summary is the KPI aggregation over one run's enriched orders. Only paid
// orders contribute to revenue and margin; pending ones are counted apart.
type Summary struct {
	Orders        int             `json:"orders"`
	Pending       int             `json:"pending"`
	Revenue       decimal.Decimal `json:"revenueEur"`
	Margin        decimal.Decimal `json:"marginEur"`
	MarginPct     decimal.Decimal `json:"marginPct"`
	AvgPrice      decimal.Decimal `json:"avgPriceEur"`
	AvgMargin     decimal.Decimal `json:"avgMarginEur"`
	AvgRotation   decimal.Decimal `json:"avgRotationDays"`
	ByChannel     []Bucket        `json:"byChannel"`
	ByMarketplace []Bucket        `json:"byMarketplace"`
	ByCountry     []Bucket        `json:"byCountry"`
	ByCategory    []Bucket        `json:"byCategory"`
	ByBrand       []Bucket        `json:"byBrand"`
	ByPriceBand   []Bucket        `json:"byPriceBand"`
}

// Summarize aggregates the enriched orders into the dashboard KPIs.
// Safe on an empty input: all totals zero, no buckets.
func Summarize(orders []types.EnrichedOrder) Summary {
	s := Summary{
		Revenue:     decimal.Zero,
		Margin:      decimal.Zero,
		MarginPct:   decimal.Zero,
		AvgPrice:    decimal.Zero,
		AvgMargin:   decimal.Zero,
		AvgRotation: decimal.Zero,
	}

	byChannel := map[string]*Bucket{}
	byMarketplace := map[string]*Bucket{}
	byCountry := map[string]*Bucket{}
	byCategory := map[string]*Bucket{}
	byBrand := map[string]*Bucket{}
	byBand := map[string]*Bucket{}

	rotationTotal := 0

	for _, o := range orders {
		if o.FinancialStatus != "paid" {
			s.Pending++
			continue
		}

		s.Orders++
		s.Revenue = s.Revenue.Add(o.TotalEUR)
		s.Margin = s.Margin.Add(o.NetMargin)
		rotationTotal += o.StockAgeDays

		accumulate(byChannel, string(o.Channel), o)
		if o.Channel == types.ChannelMarketplace {
			accumulate(byMarketplace, o.Marketplace, o)
		}
		accumulate(byCountry, o.Country, o)
		accumulate(byCategory, string(o.Category), o)
		accumulate(byBrand, o.Brand, o)
		accumulate(byBand, priceBand(o.TotalEUR), o)
	}

	if s.Orders > 0 {
		n := decimal.NewFromInt(int64(s.Orders))
		s.AvgPrice = s.Revenue.Div(n).Round(2)
		s.AvgMargin = s.Margin.Div(n).Round(2)
		s.AvgRotation = decimal.NewFromInt(int64(rotationTotal)).Div(n).Round(1)
	}
	if s.Revenue.IsPositive() {
		s.MarginPct = s.Margin.Div(s.Revenue).Mul(decimal.NewFromInt(100)).Round(2)
	}

	s.ByChannel = sortBuckets(byChannel)
	s.ByMarketplace = sortBuckets(byMarketplace)
	s.ByCountry = sortBuckets(byCountry)
	s.ByCategory = sortBuckets(byCategory)
	s.ByBrand = sortBuckets(byBrand)
	s.ByPriceBand = sortBandBuckets(byBand)

	return s
}

func accumulate(m map[string]*Bucket, key string, o types.EnrichedOrder) {
	if key == "" {
		return
	}
	b, ok := m[key]
	if !ok {
		b = &Bucket{Key: key, Revenue: decimal.Zero, Margin: decimal.Zero}
		m[key] = b
	}
	b.Orders++
	b.Revenue = b.Revenue.Add(o.TotalEUR)
	b.Margin = b.Margin.Add(o.NetMargin)
}

func priceBand(total decimal.Decimal) string {
	for _, band := range priceBands {
		if band.Max.IsZero() || total.LessThan(band.Max) {
			return band.Label
		}
	}
	return priceBands[len(priceBands)-1].Label
}

func sortBuckets(m map[string]*Bucket) []Bucket {
	out := make([]Bucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// sortBandBuckets keeps the fixed band order instead of sorting by revenue.
func sortBandBuckets(m map[string]*Bucket) []Bucket {
	out := make([]Bucket, 0, len(m))
	for _, band := range priceBands {
		if b, ok := m[band.Label]; ok {
			out = append(out, *b)
		}
	}
	return out
}
