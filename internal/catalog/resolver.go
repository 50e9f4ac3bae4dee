// Package catalog resolves product metadata — purchase cost, fiscal regime,
// brand, category, powertrain — for batches of product IDs.
//
// The resolver is total over its input: every requested ID gets an entry.
// When a chunk fetch fails or a record is missing, the entry is a defaulted
// sentinel flagged Degraded so callers can surface data quality instead of
// masking it.
package catalog

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tuvalum/margin-service/internal/margin"
	"github.com/tuvalum/margin-service/internal/types"
)

// BrandUnknown is the sentinel brand for missing vendor fields.
const BrandUnknown = "UNKNOWN"

// DefaultChunkSize bounds catalog queries to the collaborator's batch limit.
const DefaultChunkSize = 50

// minEBikeMileage is the declared-mileage threshold above which a listing is
// treated as motorized even without a motor field.
var minEBikeMileage = 1.0

// Source is the external catalog collaborator, batch-queryable by product ID.
// Missing IDs are simply absent from the returned map.
type Source interface {
	FetchBatch(ctx context.Context, ids []string) (map[string]types.RawProductMetadata, error)
}

// ResolvedProduct is the resolver's output for one product ID.
type ResolvedProduct struct {
	Cost        decimal.Decimal
	Regime      types.Regime
	Brand       string
	Category    types.Category
	Subcategory string
	Powertrain  types.Powertrain
	CreatedAt   time.Time // zero when unknown
	// Degraded marks entries defaulted after a fetch failure or a missing
	// catalog record.
	Degraded bool
}

// Resolver batches and fans out catalog lookups.
type Resolver struct {
	src       Source
	chunkSize int
	sem       *semaphore.Weighted
	logger    zerolog.Logger
}

// NewResolver creates a resolver over the given catalog source. concurrency
// bounds how many chunk fetches run in parallel; chunks are independent, so
// fan-out is safe while order pagination is not.
func NewResolver(src Source, chunkSize, concurrency int, logger zerolog.Logger) *Resolver {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Resolver{
		src:       src,
		chunkSize: chunkSize,
		sem:       semaphore.NewWeighted(int64(concurrency)),
		logger:    logger.With().Str("component", "catalog_resolver").Logger(),
	}
}

// ResolveBatch resolves metadata for the given product IDs. Input IDs are
// deduplicated before querying. The returned map always contains one entry
// per unique requested ID; it never fails.
func (r *Resolver) ResolveBatch(ctx context.Context, ids []string) map[string]ResolvedProduct {
	unique := dedupe(ids)
	out := make(map[string]ResolvedProduct, len(unique))
	if len(unique) == 0 {
		return out
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for start := 0; start < len(unique); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(unique) {
			end = len(unique)
		}
		chunk := unique[start:end]

		if err := r.sem.Acquire(ctx, 1); err != nil {
			// Context gone: default the remaining chunks and stop.
			mu.Lock()
			for _, id := range unique[start:] {
				out[id] = sentinel()
			}
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(chunk []string) {
			defer r.sem.Release(1)
			defer wg.Done()

			resolved := r.resolveChunk(ctx, chunk)

			mu.Lock()
			for id, p := range resolved {
				out[id] = p
			}
			mu.Unlock()
		}(chunk)
	}

	wg.Wait()
	return out
}

func (r *Resolver) resolveChunk(ctx context.Context, chunk []string) map[string]ResolvedProduct {
	out := make(map[string]ResolvedProduct, len(chunk))

	records, err := r.src.FetchBatch(ctx, chunk)
	if err != nil {
		r.logger.Warn().Err(err).Int("ids", len(chunk)).Msg("Catalog chunk fetch failed, defaulting entries")
		for _, id := range chunk {
			out[id] = sentinel()
		}
		return out
	}

	for _, id := range chunk {
		raw, ok := records[id]
		if !ok {
			out[id] = sentinel()
			continue
		}
		out[id] = Resolve(raw)
	}
	return out
}

// Resolve derives a ResolvedProduct from one raw catalog record.
func Resolve(raw types.RawProductMetadata) ResolvedProduct {
	powertrain := DerivePowertrain(raw.Motor, raw.Mileage)
	return ResolvedProduct{
		Cost:        ParseCost(raw.CostRaw),
		Regime:      margin.ParseRegime(raw.FiscalTag),
		Brand:       NormalizeBrand(raw.BrandOverride, raw.Vendor),
		Category:    DeriveCategory(raw.SubcategoryTag, powertrain),
		Subcategory: strings.TrimSpace(raw.SubcategoryTag),
		Powertrain:  powertrain,
		CreatedAt:   raw.CreatedAt,
	}
}

func sentinel() ResolvedProduct {
	return ResolvedProduct{
		Cost:       decimal.Zero,
		Regime:     types.RegimePRO,
		Brand:      BrandUnknown,
		Category:   types.CategoryOther,
		Powertrain: types.PowertrainMuscular,
		Degraded:   true,
	}
}

var costJunk = regexp.MustCompile(`[^0-9.]`)

// ParseCost parses a locale-formatted purchase-cost field. Commas are decimal
// separators; currency symbols and whitespace are stripped. Anything
// unparseable resolves to zero, the "unknown cost" sentinel.
func ParseCost(raw string) decimal.Decimal {
	cleaned := costJunk.ReplaceAllString(strings.ReplaceAll(raw, ",", "."), "")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var brandFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeBrand resolves the brand from the override field when present,
// falling back to the generic vendor field. The result is diacritics-folded,
// trimmed and uppercased; empty resolves to UNKNOWN.
func NormalizeBrand(override, vendor string) string {
	brand := strings.TrimSpace(override)
	if brand == "" {
		brand = strings.TrimSpace(vendor)
	}
	if brand == "" {
		return BrandUnknown
	}
	if folded, _, err := transform.String(brandFold, brand); err == nil {
		brand = folded
	}
	return strings.ToUpper(strings.TrimSpace(brand))
}

// DerivePowertrain classifies a product as an e-bike when a motor is declared
// or the declared mileage exceeds the minimal threshold.
func DerivePowertrain(motor, mileage string) types.Powertrain {
	if strings.TrimSpace(motor) != "" {
		return types.PowertrainEBike
	}
	if km, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(mileage, ",", ".")), 64); err == nil && km > minEBikeMileage {
		return types.PowertrainEBike
	}
	return types.PowertrainMuscular
}

// categoryKeywords maps coarse categories to subcategory keywords, matched
// case-insensitively as substrings.
var categoryKeywords = []struct {
	category types.Category
	keywords []string
}{
	{types.CategoryEBike, []string{"e-bike", "ebike", "electrica", "eléctrica"}},
	{types.CategoryRoad, []string{"carretera", "gravel", "triathlon", "gran fondo", "road"}},
	{types.CategoryMTB, []string{"mtb", "rigida", "doble", "enduro"}},
}

// DeriveCategory maps the free-text subcategory tag to a coarse category.
// A motorized powertrain forces E-Bike regardless of the tag.
func DeriveCategory(subcategory string, powertrain types.Powertrain) types.Category {
	if powertrain == types.PowertrainEBike {
		return types.CategoryEBike
	}
	tag := strings.ToLower(subcategory)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(tag, kw) {
				return group.category
			}
		}
	}
	return types.CategoryOther
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
