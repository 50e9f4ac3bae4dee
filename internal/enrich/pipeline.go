// Package enrich orchestrates the order-enrichment run: it walks the order
// pages, classifies each order, resolves product metadata in one batched call
// and computes commission, margin and rotation per surviving order.
package enrich

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tuvalum/margin-service/internal/catalog"
	"github.com/tuvalum/margin-service/internal/classify"
	"github.com/tuvalum/margin-service/internal/commission"
	"github.com/tuvalum/margin-service/internal/currency"
	"github.com/tuvalum/margin-service/internal/margin"
	"github.com/tuvalum/margin-service/internal/rotation"
	"github.com/tuvalum/margin-service/internal/types"
)

// Defaults for the run configuration.
var (
	DefaultMinOrderValue = decimal.NewFromInt(200)
	DefaultRecondCost    = decimal.NewFromFloat(54.50)
)

const (
	// DefaultLookback tolerates pagination/ordering jitter: the walk continues
	// until a page's oldest order predates the lower bound by this buffer.
	DefaultLookback = 48 * time.Hour
	// DefaultMaxPages is the hard circuit breaker against runaway pagination.
	DefaultMaxPages = 50
)

// OrderPager walks order pages newest-first. An empty page with a nil error
// means the walk is exhausted. Pagination is sequential; pages must be
// requested one at a time.
type OrderPager interface {
	Next(ctx context.Context) ([]types.RawOrder, error)
}

// OrderSource starts a fresh order walk per run.
type OrderSource interface {
	Orders() OrderPager
}

// OrderSourceFunc adapts a pager constructor to the OrderSource interface.
type OrderSourceFunc func() OrderPager

func (f OrderSourceFunc) Orders() OrderPager { return f() }

// MetadataResolver resolves catalog metadata for a batch of product IDs.
// The mapping is total: every requested ID gets an entry.
type MetadataResolver interface {
	ResolveBatch(ctx context.Context, ids []string) map[string]catalog.ResolvedProduct
}

// Config tunes a pipeline instance. Zero values fall back to the defaults.
type Config struct {
	MinOrderValue decimal.Decimal
	RecondCost    decimal.Decimal
	Lookback      time.Duration
	MaxPages      int
}

func (c Config) withDefaults() Config {
	if c.MinOrderValue.IsZero() {
		c.MinOrderValue = DefaultMinOrderValue
	}
	if c.RecondCost.IsZero() {
		c.RecondCost = DefaultRecondCost
	}
	if c.Lookback == 0 {
		c.Lookback = DefaultLookback
	}
	if c.MaxPages == 0 {
		c.MaxPages = DefaultMaxPages
	}
	return c
}

// RunStats summarizes one run for the audit trail and the summary endpoint.
type RunStats struct {
	Pages     int           `json:"pages"`
	Fetched   int           `json:"fetched"`
	Kept      int           `json:"kept"`
	Rejected  int           `json:"rejected"`
	Returns   int           `json:"returns"`
	Degraded  int           `json:"degraded"`
	Truncated bool          `json:"truncated"`
	Duration  time.Duration `json:"duration"`
}

// Result is the output of one order-enrichment run.
type Result struct {
	Orders []types.EnrichedOrder `json:"orders"`
	// Returns holds refunds issued after fulfillment, excluded from margin
	// KPIs but surfaced on their own feed.
	Returns   []types.EnrichedOrder `json:"returns"`
	Since     time.Time             `json:"since"`
	FetchedAt time.Time             `json:"fetchedAt"`
	Stats     RunStats              `json:"stats"`
}

// Pipeline is the order-enrichment orchestrator. Stateless between runs;
// safe for concurrent runs over different date ranges.
type Pipeline struct {
	source   OrderSource
	resolver MetadataResolver
	cfg      Config
	logger   zerolog.Logger
}

// NewPipeline builds a pipeline over the given collaborators.
func NewPipeline(source OrderSource, resolver MetadataResolver, cfg Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		source:   source,
		resolver: resolver,
		cfg:      cfg.withDefaults(),
		logger:   logger.With().Str("component", "enrich_pipeline").Logger(),
	}
}

// Run executes an order-enrichment run for orders created at or after since.
func (p *Pipeline) Run(ctx context.Context, since time.Time) (*Result, error) {
	tracer := otel.Tracer("enrich")
	ctx, span := tracer.Start(ctx, "enrich.Run")
	defer span.End()
	span.SetAttributes(attribute.String("since", since.Format(time.RFC3339)))

	start := time.Now()

	raws, pages, truncated, err := p.fetchOrders(ctx, since)
	if err != nil {
		runsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	pagesFetched.Observe(float64(pages))

	result := p.enrich(ctx, since, raws)
	result.Stats.Pages = pages
	result.Stats.Truncated = truncated
	result.Stats.Duration = time.Since(start)

	runsTotal.WithLabelValues("success").Inc()
	runDuration.Observe(result.Stats.Duration.Seconds())

	p.logger.Info().
		Time("since", since).
		Int("pages", pages).
		Int("fetched", result.Stats.Fetched).
		Int("kept", result.Stats.Kept).
		Int("rejected", result.Stats.Rejected).
		Int("returns", result.Stats.Returns).
		Int("degraded", result.Stats.Degraded).
		Bool("truncated", truncated).
		Dur("duration", result.Stats.Duration).
		Msg("Order-enrichment run completed")

	return result, nil
}

// fetchOrders walks the pager until the pages are exhausted, the oldest order
// on a page predates the lower bound (since minus the jitter buffer), or the
// page cap trips.
func (p *Pipeline) fetchOrders(ctx context.Context, since time.Time) (raws []types.RawOrder, pages int, truncated bool, err error) {
	ctx, span := otel.Tracer("enrich").Start(ctx, "enrich.fetchOrders")
	defer span.End()

	lowerBound := since.Add(-p.cfg.Lookback)
	pager := p.source.Orders()

	for {
		if pages >= p.cfg.MaxPages {
			p.logger.Warn().Int("pages", pages).Msg("Order pagination hit the page cap")
			return raws, pages, true, nil
		}

		page, pageErr := pager.Next(ctx)
		if pageErr != nil {
			return nil, pages, false, pageErr
		}
		if len(page) == 0 {
			return raws, pages, false, nil
		}

		pages++
		raws = append(raws, page...)

		// Pages arrive newest-first, so the last order is the page's oldest.
		if page[len(page)-1].CreatedAt.Before(lowerBound) {
			return raws, pages, false, nil
		}
	}
}

// enrich classifies the fetched orders, resolves metadata for the survivors
// in one batched call and assembles the per-order analytical records.
func (p *Pipeline) enrich(ctx context.Context, since time.Time, raws []types.RawOrder) *Result {
	ctx, span := otel.Tracer("enrich").Start(ctx, "enrich.enrich")
	defer span.End()

	type classified struct {
		raw      types.RawOrder
		cls      classify.Result
		totalEUR decimal.Decimal
		isReturn bool
	}

	var survivors []classified
	var productIDs []string
	stats := RunStats{Fetched: len(raws)}

	for _, raw := range raws {
		// The lookback buffer over-fetches past the boundary; drop the excess.
		if raw.CreatedAt.Before(since) {
			continue
		}

		totalEUR := currency.ToEUR(raw.TotalPrice, raw.Currency)
		cls, reason := classify.Classify(raw, totalEUR, p.cfg.MinOrderValue)

		switch reason {
		case classify.RejectNone:
			stats.Kept++
			ordersProcessed.WithLabelValues("kept").Inc()
		case classify.RejectReturn:
			// Returns keep their classification so the returns feed can show
			// channel and product context.
			cls, _ = classifyReturn(raw)
			stats.Returns++
			ordersProcessed.WithLabelValues("return").Inc()
		default:
			stats.Rejected++
			ordersProcessed.WithLabelValues("rejected").Inc()
			continue
		}

		if cls.ProductID != "" {
			productIDs = append(productIDs, cls.ProductID)
		}
		survivors = append(survivors, classified{
			raw:      raw,
			cls:      cls,
			totalEUR: totalEUR,
			isReturn: reason == classify.RejectReturn,
		})
	}

	resolved := p.resolver.ResolveBatch(ctx, productIDs)

	result := &Result{
		Since:     since,
		FetchedAt: time.Now().UTC(),
	}

	for _, s := range survivors {
		order := p.buildOrder(s.raw, s.cls, s.totalEUR, resolved)
		if order.Degraded {
			stats.Degraded++
			degradedRecords.Inc()
		}
		if s.isReturn {
			result.Returns = append(result.Returns, order)
		} else {
			result.Orders = append(result.Orders, order)
		}
	}

	result.Stats = stats
	return result
}

// classifyReturn re-derives channel/country/product for a returned order,
// bypassing the validity rules that would reject it.
func classifyReturn(raw types.RawOrder) (classify.Result, classify.RejectReason) {
	// A copy with the refund markers cleared classifies normally.
	neutral := raw
	neutral.FinancialStatus = "paid"
	neutral.CancelledAt = nil
	return classify.Classify(neutral, decimal.NewFromInt(1_000_000), decimal.Zero)
}

func (p *Pipeline) buildOrder(raw types.RawOrder, cls classify.Result, totalEUR decimal.Decimal, resolved map[string]catalog.ResolvedProduct) types.EnrichedOrder {
	meta := resolved[cls.ProductID] // zero value when unresolvable: cost 0, PRO via Regime mapping below

	regime := meta.Regime
	if regime == "" {
		regime = types.RegimePRO
	}
	brand := meta.Brand
	if brand == "" {
		brand = catalog.BrandUnknown
	}
	category := meta.Category
	if category == "" {
		category = types.CategoryOther
	}
	powertrain := meta.Powertrain
	if powertrain == "" {
		powertrain = types.PowertrainMuscular
	}

	fee := commission.Fee(cls.Channel, cls.Marketplace, raw.TotalPrice, raw.Currency)

	net := margin.Net(regime, totalEUR, meta.Cost, fee)
	if meta.Cost.GreaterThan(decimal.Zero) {
		// Reconditioning is a fixed per-bike workshop cost borne on every sale.
		net = net.Sub(p.cfg.RecondCost)
	}

	return types.EnrichedOrder{
		OrderID:         raw.ID,
		OrderName:       raw.Name,
		CreatedAt:       raw.CreatedAt,
		FinancialStatus: classify.NormalizeFinancialStatus(raw.FinancialStatus),
		Channel:         cls.Channel,
		Marketplace:     cls.Marketplace,
		Country:         cls.Country,
		SKU:             cls.SKU,
		ProductID:       cls.ProductID,
		TotalEUR:        totalEUR,
		PurchaseCost:    meta.Cost,
		FiscalRegime:    regime,
		Brand:           brand,
		Category:        category,
		Subcategory:     meta.Subcategory,
		Powertrain:      powertrain,
		CommissionEUR:   fee,
		NetMargin:       net,
		StockAgeDays:    rotation.Days(meta.CreatedAt, raw.CreatedAt),
		Degraded:        meta.Degraded,
	}
}
