package classify

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tuvalum/margin-service/internal/types"
)

var minValue = decimal.NewFromInt(200)

func validOrder() types.RawOrder {
	return types.RawOrder{
		ID:              "100001",
		Name:            "#T1001",
		CreatedAt:       time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		TotalPrice:      decimal.NewFromInt(1500),
		Currency:        "EUR",
		FinancialStatus: "paid",
		ShippingCountry: "ES",
		LineItems:       []types.LineItem{{ProductID: "p1", SKU: "123456"}},
	}
}

func TestClassifyChannels(t *testing.T) {
	tests := []struct {
		name        string
		tags        string
		channel     types.Channel
		marketplace string
	}{
		{"no tags is direct", "", types.ChannelDirect, ""},
		{"store tag", "Tienda Tuvalum, prioridad", types.ChannelStore, ""},
		{"assisted sale tag", "venta asistida", types.ChannelStore, ""},
		{"named marketplace", "marketplace, Decathlon", types.ChannelMarketplace, "Decathlon"},
		{"marketplace keyword without generic tag", "alltricks-export", types.ChannelMarketplace, "Alltricks"},
		{"generic marketplace only", "Marketplace", types.ChannelMarketplace, OtherMarketplace},
		{"case insensitive", "BUYCYCLE", types.ChannelMarketplace, "Buycycle"},
		{"unrelated tags are direct", "vip, campaign-2026", types.ChannelDirect, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOrder()
			o.Tags = tt.tags
			res, reject := Classify(o, o.TotalPrice, minValue)
			assert.Equal(t, RejectNone, reject)
			assert.Equal(t, tt.channel, res.Channel)
			assert.Equal(t, tt.marketplace, res.Marketplace)
		})
	}
}

func TestClassifyCountryFallback(t *testing.T) {
	o := validOrder()
	o.ShippingCountry = ""
	o.BillingCountry = "FR"
	res, reject := Classify(o, o.TotalPrice, minValue)
	assert.Equal(t, RejectNone, reject)
	assert.Equal(t, "FR", res.Country)

	o.BillingCountry = ""
	res, _ = Classify(o, o.TotalPrice, minValue)
	assert.Equal(t, CountryUnknown, res.Country)
}

func TestClassifyRejections(t *testing.T) {
	t.Run("cancelled order", func(t *testing.T) {
		o := validOrder()
		now := time.Now()
		o.CancelledAt = &now
		_, reject := Classify(o, o.TotalPrice, minValue)
		assert.Equal(t, RejectCancelled, reject)
	})

	t.Run("below minimum value", func(t *testing.T) {
		o := validOrder()
		_, reject := Classify(o, decimal.NewFromInt(150), minValue)
		assert.Equal(t, RejectBelowMinimum, reject)
	})

	t.Run("exactly at minimum is retained", func(t *testing.T) {
		o := validOrder()
		_, reject := Classify(o, decimal.NewFromInt(200), minValue)
		assert.Equal(t, RejectNone, reject)
	})

	t.Run("refunded after fulfillment is a return", func(t *testing.T) {
		o := validOrder()
		o.FinancialStatus = "refunded"
		o.FulfillmentStatus = "fulfilled"
		_, reject := Classify(o, o.TotalPrice, minValue)
		assert.Equal(t, RejectReturn, reject)
	})

	t.Run("refunded before fulfillment is excluded", func(t *testing.T) {
		o := validOrder()
		o.FinancialStatus = "refunded"
		o.FulfillmentStatus = "unfulfilled"
		_, reject := Classify(o, o.TotalPrice, minValue)
		assert.Equal(t, RejectRefunded, reject)
	})

	t.Run("partially refunded is retained", func(t *testing.T) {
		o := validOrder()
		o.FinancialStatus = "partially_refunded"
		_, reject := Classify(o, o.TotalPrice, minValue)
		assert.Equal(t, RejectNone, reject)
	})
}

func TestNormalizeFinancialStatus(t *testing.T) {
	assert.Equal(t, "paid", NormalizeFinancialStatus("partially_refunded"))
	assert.Equal(t, "paid", NormalizeFinancialStatus("paid"))
	assert.Equal(t, "pending", NormalizeFinancialStatus("pending"))
}

func TestSelectLineItem(t *testing.T) {
	t.Run("first catalog SKU wins over shipping lines", func(t *testing.T) {
		o := validOrder()
		o.LineItems = []types.LineItem{
			{ProductID: "ship", SKU: "SHIPPING"},
			{ProductID: "p7", SKU: "284411"},
			{ProductID: "p8", SKU: "123456"},
		}
		res, _ := Classify(o, o.TotalPrice, minValue)
		assert.Equal(t, "p7", res.ProductID)
		assert.Equal(t, "284411", res.SKU)
	})

	t.Run("falls back to first line item", func(t *testing.T) {
		o := validOrder()
		o.LineItems = []types.LineItem{{ProductID: "px", SKU: "B2837"}}
		res, _ := Classify(o, o.TotalPrice, minValue)
		assert.Equal(t, "px", res.ProductID)
		assert.Equal(t, "B2837", res.SKU)
	})

	t.Run("no line items", func(t *testing.T) {
		o := validOrder()
		o.LineItems = nil
		res, _ := Classify(o, o.TotalPrice, minValue)
		assert.Empty(t, res.ProductID)
	})
}

func TestIsDepositSKU(t *testing.T) {
	assert.True(t, IsDepositSKU("812345"))
	assert.False(t, IsDepositSKU("212345"))
	assert.False(t, IsDepositSKU("8123"))
	assert.False(t, IsDepositSKU("B12345"))
}
