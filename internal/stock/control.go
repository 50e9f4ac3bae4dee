// Package stock implements the pricing-control run: an inventory walk that
// prices a markdown recommendation for every aged listing.
package stock

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tuvalum/margin-service/internal/catalog"
	"github.com/tuvalum/margin-service/internal/classify"
	"github.com/tuvalum/margin-service/internal/discount"
	"github.com/tuvalum/margin-service/internal/margin"
	"github.com/tuvalum/margin-service/internal/rotation"
	"github.com/tuvalum/margin-service/internal/types"
)

// denylist excludes non-bicycle listing types from pricing control; the
// ladder policy only makes sense for complete bikes. Matched
// case-insensitively against title and tags.
var denylist = []string{
	"cuadro",
	"frame",
	"rodillo",
	"casco",
	"zapatillas",
	"sillin",
	"sillín",
	"rueda",
	"potencia",
	"manillar",
	"accesorio",
	"componente",
	"tarjeta regalo",
	"gift card",
}

// tierBounds define the four presentation buckets, oldest first. Listings
// younger than the last bound need no pricing action and are left out.
var tierBounds = []struct {
	Label  string
	MinAge int
	MaxAge int // exclusive; 0 means unbounded
}{
	{">360", 361, 0},
	{"180-360", 180, 361},
	{"90-180", 90, 180},
	{"45-90", 45, 90},
}

// InventorySource is the active-listings collaborator.
type InventorySource interface {
	ActiveListings(ctx context.Context) ([]types.Listing, error)
}

// Tier is one age bucket of the pricing-control report.
type Tier struct {
	Label string            `json:"label"`
	Items []types.StockItem `json:"items"`
}

// Stats counts the listings seen and filtered during a run.
type Stats struct {
	Listings int           `json:"listings"`
	Excluded int           `json:"excluded"`
	Fresh    int           `json:"fresh"`
	Duration time.Duration `json:"duration"`
}

// Report is the output of one pricing-control run. Recomputed per run,
// never persisted.
type Report struct {
	Tiers       []Tier    `json:"tiers"`
	GeneratedAt time.Time `json:"generatedAt"`
	Stats       Stats     `json:"stats"`
}

// Controller runs pricing control over an inventory source.
type Controller struct {
	source     InventorySource
	recondCost decimal.Decimal
	logger     zerolog.Logger
	now        func() time.Time
}

// NewController builds a pricing controller. recondCost is the fixed
// workshop cost subtracted from every margin with a known purchase cost.
func NewController(source InventorySource, recondCost decimal.Decimal, logger zerolog.Logger) *Controller {
	return &Controller{
		source:     source,
		recondCost: recondCost,
		logger:     logger.With().Str("component", "stock_control").Logger(),
		now:        time.Now,
	}
}

// Run fetches the active listings and prices a recommendation per aged item.
func (c *Controller) Run(ctx context.Context) (*Report, error) {
	start := c.now()

	listings, err := c.source.ActiveListings(ctx)
	if err != nil {
		return nil, err
	}

	stats := Stats{Listings: len(listings)}
	var items []types.StockItem

	for _, l := range listings {
		if l.Quantity <= 0 || excluded(l) {
			stats.Excluded++
			continue
		}

		item := c.buildItem(l, start)
		if item.StockAgeDays < tierBounds[len(tierBounds)-1].MinAge {
			stats.Fresh++
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].StockAgeDays > items[j].StockAgeDays
	})

	report := &Report{
		Tiers:       bucketize(items),
		GeneratedAt: start.UTC(),
		Stats:       stats,
	}
	report.Stats.Duration = c.now().Sub(start)

	c.logger.Info().
		Int("listings", stats.Listings).
		Int("excluded", stats.Excluded).
		Int("fresh", stats.Fresh).
		Int("aged", len(items)).
		Dur("duration", report.Stats.Duration).
		Msg("Pricing-control run completed")

	return report, nil
}

func (c *Controller) buildItem(l types.Listing, now time.Time) types.StockItem {
	age := rotation.Days(l.CreatedAt, now)
	cost := catalog.ParseCost(l.CostRaw)
	regime := margin.ParseRegime(l.FiscalTag)
	restricted := classify.IsDepositSKU(l.SKU)

	originalPrice := l.CompareAtPrice
	if originalPrice.IsZero() {
		originalPrice = l.Price
	}

	currentMargin := c.netMargin(regime, l.Price, cost)
	rec := discount.Recommend(age, currentMargin, restricted)
	recommendedPrice := l.Price.Sub(rec)

	return types.StockItem{
		ProductID:           l.ProductID,
		SKU:                 l.SKU,
		Title:               l.Title,
		ImageURL:            l.ImageURL,
		StockAgeDays:        age,
		CurrentPrice:        l.Price,
		OriginalPrice:       originalPrice,
		PurchaseCost:        cost,
		FiscalRegime:        regime,
		CurrentMargin:       currentMargin,
		RecommendedDiscount: rec,
		RecommendedPrice:    recommendedPrice,
		ProjectedMargin:     c.netMargin(regime, recommendedPrice, cost),
		Restricted:          restricted,
		LastUpdated:         l.UpdatedAt,
	}
}

func (c *Controller) netMargin(regime types.Regime, price, cost decimal.Decimal) decimal.Decimal {
	net := margin.Net(regime, price, cost, decimal.Zero)
	if cost.GreaterThan(decimal.Zero) {
		net = net.Sub(c.recondCost)
	}
	return net
}

func excluded(l types.Listing) bool {
	haystack := strings.ToLower(l.Title + " " + l.Tags)
	for _, kw := range denylist {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

func bucketize(items []types.StockItem) []Tier {
	tiers := make([]Tier, len(tierBounds))
	for i, b := range tierBounds {
		tiers[i] = Tier{Label: b.Label}
	}
	for _, item := range items {
		for i, b := range tierBounds {
			if item.StockAgeDays >= b.MinAge && (b.MaxAge == 0 || item.StockAgeDays < b.MaxAge) {
				tiers[i].Items = append(tiers[i].Items, item)
				break
			}
		}
	}
	return tiers
}
