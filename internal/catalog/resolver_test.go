package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuvalum/margin-service/internal/types"
)

type fakeSource struct {
	mu      sync.Mutex
	batches [][]string
	records map[string]types.RawProductMetadata
	failOn  map[string]bool // fail any batch containing this ID
}

func (f *fakeSource) FetchBatch(_ context.Context, ids []string) (map[string]types.RawProductMetadata, error) {
	f.mu.Lock()
	f.batches = append(f.batches, ids)
	f.mu.Unlock()

	out := make(map[string]types.RawProductMetadata)
	for _, id := range ids {
		if f.failOn[id] {
			return nil, errors.New("upstream unavailable")
		}
		if rec, ok := f.records[id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

func record(id, cost, fiscal string) types.RawProductMetadata {
	return types.RawProductMetadata{
		ProductID: id,
		Vendor:    "Orbea",
		CostRaw:   cost,
		FiscalTag: fiscal,
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestResolveBatchIsTotal(t *testing.T) {
	src := &fakeSource{records: map[string]types.RawProductMetadata{
		"p1": record("p1", "1200,50", "Margen REBU"),
	}}
	r := NewResolver(src, 50, 4, zerolog.Nop())

	got := r.ResolveBatch(context.Background(), []string{"p1", "p2"})

	require.Len(t, got, 2)
	assert.False(t, got["p1"].Degraded)
	assert.True(t, got["p1"].Cost.Equal(decimal.NewFromFloat(1200.50)))
	assert.Equal(t, types.RegimeREBU, got["p1"].Regime)
	assert.Equal(t, "ORBEA", got["p1"].Brand)

	// Missing from the catalog: defaulted sentinel.
	assert.True(t, got["p2"].Degraded)
	assert.True(t, got["p2"].Cost.IsZero())
	assert.Equal(t, types.RegimePRO, got["p2"].Regime)
	assert.Equal(t, BrandUnknown, got["p2"].Brand)
}

func TestResolveBatchDeduplicatesAndChunks(t *testing.T) {
	records := make(map[string]types.RawProductMetadata)
	var ids []string
	for i := 0; i < 120; i++ {
		id := fmt.Sprintf("p%03d", i)
		records[id] = record(id, "100", "")
		ids = append(ids, id, id) // every ID twice
	}
	src := &fakeSource{records: records}
	r := NewResolver(src, 50, 4, zerolog.Nop())

	got := r.ResolveBatch(context.Background(), ids)

	assert.Len(t, got, 120)
	// 120 unique IDs at chunk size 50: 50 + 50 + 20.
	require.Len(t, src.batches, 3)
	total := 0
	for _, b := range src.batches {
		assert.LessOrEqual(t, len(b), 50)
		total += len(b)
	}
	assert.Equal(t, 120, total)
}

func TestResolveBatchChunkFailureDegradesOnlyThatChunk(t *testing.T) {
	src := &fakeSource{
		records: map[string]types.RawProductMetadata{
			"good": record("good", "500", ""),
		},
		failOn: map[string]bool{"bad": true},
	}
	r := NewResolver(src, 1, 1, zerolog.Nop())

	got := r.ResolveBatch(context.Background(), []string{"good", "bad"})

	require.Len(t, got, 2)
	assert.False(t, got["good"].Degraded)
	assert.True(t, got["bad"].Degraded)
}

func TestResolveBatchEmptyInput(t *testing.T) {
	src := &fakeSource{}
	r := NewResolver(src, 50, 4, zerolog.Nop())

	assert.Empty(t, r.ResolveBatch(context.Background(), nil))
	assert.Empty(t, r.ResolveBatch(context.Background(), []string{""}))
	assert.Empty(t, src.batches)
}

func TestParseCost(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
	}{
		{"1200.50", 1200.50},
		{"1.200,50", 0}, // thousands separators are not unwound
		{"950,00", 950},
		{"1200,50 €", 1200.50},
		{"  840 ", 840},
		{"", 0},
		{"n/a", 0},
		{"1.2.3", 0},
	}

	for _, tt := range tests {
		got := ParseCost(tt.raw)
		assert.True(t, got.Equal(decimal.NewFromFloat(tt.expected)), "%q: got %s", tt.raw, got)
	}
}

func TestParseCostSimpleComma(t *testing.T) {
	assert.True(t, ParseCost("1200,50").Equal(decimal.NewFromFloat(1200.50)))
}

func TestNormalizeBrand(t *testing.T) {
	assert.Equal(t, "ORBEA", NormalizeBrand("", "orbea"))
	assert.Equal(t, "SPECIALIZED", NormalizeBrand("Specialized", "whatever"))
	assert.Equal(t, "BH", NormalizeBrand("  bh  ", ""))
	assert.Equal(t, "MONDRAKER", NormalizeBrand("Mondräker", ""))
	assert.Equal(t, BrandUnknown, NormalizeBrand("", ""))
	assert.Equal(t, BrandUnknown, NormalizeBrand("   ", "  "))
}

func TestDerivePowertrain(t *testing.T) {
	assert.Equal(t, types.PowertrainEBike, DerivePowertrain("Bosch CX", ""))
	assert.Equal(t, types.PowertrainEBike, DerivePowertrain("", "1500"))
	assert.Equal(t, types.PowertrainEBike, DerivePowertrain("", "1,5"))
	assert.Equal(t, types.PowertrainMuscular, DerivePowertrain("", "1"))
	assert.Equal(t, types.PowertrainMuscular, DerivePowertrain("", "0"))
	assert.Equal(t, types.PowertrainMuscular, DerivePowertrain("", ""))
	assert.Equal(t, types.PowertrainMuscular, DerivePowertrain("", "unknown"))
}

func TestDeriveCategory(t *testing.T) {
	tests := []struct {
		tag      string
		expected types.Category
	}{
		{"Bicicletas de Carretera", types.CategoryRoad},
		{"Gravel", types.CategoryRoad},
		{"Triathlon / Contrarreloj", types.CategoryRoad},
		{"MTB Dobles", types.CategoryMTB},
		{"MTB Rigidas", types.CategoryMTB},
		{"Enduro", types.CategoryMTB},
		{"E-Bike Montaña", types.CategoryEBike},
		{"Urbanas", types.CategoryOther},
		{"", types.CategoryOther},
	}

	for _, tt := range tests {
		got := DeriveCategory(tt.tag, types.PowertrainMuscular)
		assert.Equal(t, tt.expected, got, "tag %q", tt.tag)
	}
}

func TestDeriveCategoryMotorOverridesTag(t *testing.T) {
	got := DeriveCategory("Bicicletas de Carretera", types.PowertrainEBike)
	assert.Equal(t, types.CategoryEBike, got)
}

func TestResolveFullRecord(t *testing.T) {
	raw := types.RawProductMetadata{
		ProductID:      "p9",
		Vendor:         "Cube",
		CostRaw:        "2100,00",
		FiscalTag:      "Margen INTRA",
		SubcategoryTag: "MTB Dobles",
		Motor:          "Bosch",
		CreatedAt:      time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	got := Resolve(raw)

	assert.Equal(t, types.RegimeINTRA, got.Regime)
	assert.Equal(t, "CUBE", got.Brand)
	assert.Equal(t, types.PowertrainEBike, got.Powertrain)
	assert.Equal(t, types.CategoryEBike, got.Category)
	assert.Equal(t, "MTB Dobles", got.Subcategory)
	assert.False(t, got.Degraded)
}
