package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Channel represents the sales channel an order came through
type Channel string

const (
	ChannelDirect      Channel = "direct"
	ChannelMarketplace Channel = "marketplace"
	ChannelStore       Channel = "store"
)

// Regime represents the fiscal regime the product was acquired under
type Regime string

const (
	// RegimeREBU covers goods bought from private individuals without
	// deductible input tax; tax is owed on the profit only.
	RegimeREBU Regime = "REBU"
	// RegimePRO covers goods bought from VAT-registered domestic businesses.
	RegimePRO Regime = "PRO"
	// RegimeINTRA covers reverse-charge intra-community acquisitions.
	RegimeINTRA Regime = "INTRA"
)

// Powertrain distinguishes e-bikes from muscular bikes
type Powertrain string

const (
	PowertrainMuscular Powertrain = "muscular"
	PowertrainEBike    Powertrain = "ebike"
)

// Category is the coarse product category derived from the subcategory tag
type Category string

const (
	CategoryRoad  Category = "Road"
	CategoryMTB   Category = "MTB"
	CategoryEBike Category = "E-Bike"
	CategoryOther Category = "Other"
)

// LineItem is a single line of a raw order
type LineItem struct {
	ProductID string `json:"productId"`
	SKU       string `json:"sku"`
}

// RawOrder is an order as fetched from the commerce platform, before
// classification and enrichment. Immutable once fetched.
type RawOrder struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	CreatedAt         time.Time       `json:"createdAt"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	Currency          string          `json:"currency"`
	FinancialStatus   string          `json:"financialStatus"`
	FulfillmentStatus string          `json:"fulfillmentStatus"`
	CancelledAt       *time.Time      `json:"cancelledAt,omitempty"`
	Tags              string          `json:"tags"`
	ShippingCountry   string          `json:"shippingCountry"`
	BillingCountry    string          `json:"billingCountry"`
	LineItems         []LineItem      `json:"lineItems"`
}

// RawProductMetadata is the catalog collaborator's record for a product.
// Cost, mileage and fiscal tags are free-text custom fields.
type RawProductMetadata struct {
	ProductID     string    `json:"productId"`
	Title         string    `json:"title"`
	Vendor        string    `json:"vendor"`
	BrandOverride string    `json:"brandOverride"`
	CreatedAt     time.Time `json:"createdAt"`
	CostRaw       string    `json:"costRaw"`
	FiscalTag     string    `json:"fiscalTag"`
	SubcategoryTag string   `json:"subcategoryTag"`
	Mileage       string    `json:"mileage"`
	Motor         string    `json:"motor"`
}

// EnrichedOrder is the engine's per-order analytical record. Created once per
// fetch cycle from a RawOrder and its resolved product; never mutated after.
type EnrichedOrder struct {
	OrderID         string          `json:"orderId" jsonschema:"required"`
	OrderName       string          `json:"orderName" jsonschema:"required"`
	CreatedAt       time.Time       `json:"createdAt" jsonschema:"required"`
	FinancialStatus string          `json:"financialStatus" jsonschema:"required"`
	Channel         Channel         `json:"channel" jsonschema:"required,enum=direct,enum=marketplace,enum=store"`
	Marketplace     string          `json:"marketplace,omitempty"`
	Country         string          `json:"country" jsonschema:"required"`
	SKU             string          `json:"sku"`
	ProductID       string          `json:"productId"`
	TotalEUR        decimal.Decimal `json:"totalEur" jsonschema:"required"`
	PurchaseCost    decimal.Decimal `json:"purchaseCost"`
	FiscalRegime    Regime          `json:"fiscalRegime" jsonschema:"required,enum=REBU,enum=PRO,enum=INTRA"`
	Brand           string          `json:"brand"`
	Category        Category        `json:"category"`
	Subcategory     string          `json:"subcategory"`
	Powertrain      Powertrain      `json:"powertrain"`
	CommissionEUR   decimal.Decimal `json:"commissionEur"`
	NetMargin       decimal.Decimal `json:"netMargin"`
	StockAgeDays    int             `json:"stockAgeDays"`
	Degraded        bool            `json:"degraded,omitempty"`
}

// Listing is an active inventory listing as fetched from the inventory
// collaborator, carrying the same custom fields as the catalog source.
type Listing struct {
	ProductID      string          `json:"productId"`
	SKU            string          `json:"sku"`
	Title          string          `json:"title"`
	ImageURL       string          `json:"imageUrl"`
	Tags           string          `json:"tags"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	CompareAtPrice decimal.Decimal `json:"compareAtPrice"`
	CostRaw        string          `json:"costRaw"`
	FiscalTag      string          `json:"fiscalTag"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// StockItem is the pricing-control record for one active listing.
// Recomputed on every run; never persisted.
type StockItem struct {
	ProductID           string          `json:"productId" jsonschema:"required"`
	SKU                 string          `json:"sku" jsonschema:"required"`
	Title               string          `json:"title"`
	ImageURL            string          `json:"imageUrl,omitempty"`
	StockAgeDays        int             `json:"stockAgeDays" jsonschema:"required"`
	CurrentPrice        decimal.Decimal `json:"currentPrice"`
	OriginalPrice       decimal.Decimal `json:"originalPrice"`
	PurchaseCost        decimal.Decimal `json:"purchaseCost"`
	FiscalRegime        Regime          `json:"fiscalRegime"`
	CurrentMargin       decimal.Decimal `json:"currentMargin"`
	RecommendedDiscount decimal.Decimal `json:"recommendedDiscount"`
	RecommendedPrice    decimal.Decimal `json:"recommendedPrice"`
	ProjectedMargin     decimal.Decimal `json:"projectedMargin"`
	Restricted          bool            `json:"restricted"`
	LastUpdated         time.Time       `json:"lastUpdated"`
}
