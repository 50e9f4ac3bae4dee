// Package classify derives channel, marketplace, country and validity for raw
// orders, and selects the line item that identifies the originating product.
package classify

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tuvalum/margin-service/internal/types"
)

// RejectReason explains why an order is excluded from the enriched set.
// Rejection is a normal filtering outcome, not an error.
type RejectReason string

const (
	RejectNone         RejectReason = ""
	RejectCancelled    RejectReason = "cancelled"
	RejectBelowMinimum RejectReason = "below_minimum"
	// RejectReturn marks a refund issued after the item shipped. These orders
	// belong in the returns feed, not the margin KPIs.
	RejectReturn RejectReason = "return"
	// RejectRefunded marks a refund issued before fulfillment, the
	// cancellation-equivalent case.
	RejectRefunded RejectReason = "refunded"
)

// OtherMarketplace is the sentinel name used when the generic marketplace tag
// matched but no specific marketplace keyword did.
const OtherMarketplace = "Other Marketplace"

// CountryUnknown is used when neither address carries a country code.
const CountryUnknown = "Unknown"

// marketplaceKeywords maps a tag keyword to the marketplace display name.
// Order matters: the first keyword found in the tag string wins.
var marketplaceKeywords = []struct {
	keyword string
	name    string
}{
	{"decathlon", "Decathlon"},
	{"alltricks", "Alltricks"},
	{"bikeroom", "Bikeroom"},
	{"campsider", "Campsider"},
	{"buycycle", "Buycycle"},
	{"bikeflip", "Bikeflip"},
	{"ebikemood", "Ebikemood"},
	{"cycletyre", "Cycletyre"},
}

var storeTags = []string{"tienda tuvalum", "venta asistida"}

// catalogSKU matches the catalog's internal 6-digit product codes. The first
// digit encodes ownership: 1/2 purchased stock, 8 deposit (consignment) stock.
var catalogSKU = regexp.MustCompile(`^[128]\d{5}$`)

// depositPrefix is the SKU prefix of deposit-owned items, which are
// ineligible for markdowns.
const depositPrefix = "8"

// Result is a successful classification.
type Result struct {
	Channel     types.Channel
	Marketplace string // set only for ChannelMarketplace
	Country     string
	ProductID   string
	SKU         string
}

// Classify derives the classification for a raw order, or a RejectReason when
// the order fails a business validity rule. totalEUR must already be
// currency-normalized; minOrderValue is the retention threshold in EUR.
func Classify(o types.RawOrder, totalEUR, minOrderValue decimal.Decimal) (Result, RejectReason) {
	if o.CancelledAt != nil {
		return Result{}, RejectCancelled
	}
	if totalEUR.LessThan(minOrderValue) {
		return Result{}, RejectBelowMinimum
	}
	if o.FinancialStatus == "refunded" {
		if o.FulfillmentStatus != "" && o.FulfillmentStatus != "unfulfilled" {
			return Result{}, RejectReturn
		}
		return Result{}, RejectRefunded
	}

	res := Result{Country: country(o)}
	res.Channel, res.Marketplace = channel(o.Tags)
	res.ProductID, res.SKU = selectLineItem(o.LineItems)
	return res, RejectNone
}

// NormalizeFinancialStatus maps partially_refunded to paid so downstream
// bucketing counts it as a completed, revenue-bearing sale.
func NormalizeFinancialStatus(status string) string {
	if status == "partially_refunded" {
		return "paid"
	}
	return status
}

// IsDepositSKU reports whether the SKU identifies deposit-owned stock.
// This is the single place the prefix convention is interpreted.
func IsDepositSKU(sku string) bool {
	return catalogSKU.MatchString(sku) && strings.HasPrefix(sku, depositPrefix)
}

func channel(tags string) (types.Channel, string) {
	t := strings.ToLower(tags)

	for _, st := range storeTags {
		if strings.Contains(t, st) {
			return types.ChannelStore, ""
		}
	}

	for _, mp := range marketplaceKeywords {
		if strings.Contains(t, mp.keyword) {
			return types.ChannelMarketplace, mp.name
		}
	}
	if strings.Contains(t, "marketplace") {
		return types.ChannelMarketplace, OtherMarketplace
	}

	return types.ChannelDirect, ""
}

func country(o types.RawOrder) string {
	if o.ShippingCountry != "" {
		return o.ShippingCountry
	}
	if o.BillingCountry != "" {
		return o.BillingCountry
	}
	return CountryUnknown
}

// selectLineItem picks the line item whose SKU follows the catalog's product
// code convention; orders routinely carry shipping or service lines first.
// Falls back to the first line when nothing matches.
func selectLineItem(items []types.LineItem) (productID, sku string) {
	for _, li := range items {
		if catalogSKU.MatchString(li.SKU) {
			return li.ProductID, li.SKU
		}
	}
	if len(items) > 0 {
		return items[0].ProductID, items[0].SKU
	}
	return "", ""
}
