package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuvalum/margin-service/internal/types"
)

// ordersPageSize is the REST maximum per page.
const ordersPageSize = 250

// restOrder mirrors the Admin REST order payload, trimmed to the fields the
// engine consumes.
type restOrder struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	CreatedAt         time.Time  `json:"created_at"`
	TotalPrice        string     `json:"total_price"`
	Currency          string     `json:"currency"`
	FinancialStatus   string     `json:"financial_status"`
	FulfillmentStatus string     `json:"fulfillment_status"`
	CancelledAt       *time.Time `json:"cancelled_at"`
	Tags              string     `json:"tags"`
	TotalPriceSet     *struct {
		ShopMoney struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currency_code"`
		} `json:"shop_money"`
	} `json:"total_price_set"`
	ShippingAddress *struct {
		CountryCode string `json:"country_code"`
	} `json:"shipping_address"`
	BillingAddress *struct {
		CountryCode string `json:"country_code"`
	} `json:"billing_address"`
	LineItems []struct {
		ProductID *int64 `json:"product_id"`
		SKU       string `json:"sku"`
	} `json:"line_items"`
}

// OrderPager walks the order list newest-first, one Link-header cursor at a
// time. Pagination is sequential: each page's cursor comes from the prior
// response, so pages must not be fetched concurrently.
type OrderPager struct {
	client  *Client
	nextURL string
	done    bool
}

// Orders starts a newest-first walk over all orders regardless of status.
func (c *Client) Orders() *OrderPager {
	return &OrderPager{
		client:  c,
		nextURL: c.restURL(fmt.Sprintf("orders.json?status=any&limit=%d&order=created_at+desc", ordersPageSize)),
	}
}

// Next fetches the next page. An empty slice with a nil error means the walk
// is exhausted.
func (p *OrderPager) Next(ctx context.Context) ([]types.RawOrder, error) {
	if p.done {
		return nil, nil
	}

	resp, err := p.client.http.Get(ctx, p.nextURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read orders page: %w", err)
	}

	var payload struct {
		Orders []restOrder `json:"orders"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode orders page: %w", err)
	}

	next := nextPageURL(resp.Header)
	if next == "" || len(payload.Orders) == 0 {
		p.done = true
	}
	p.nextURL = next

	out := make([]types.RawOrder, 0, len(payload.Orders))
	for _, o := range payload.Orders {
		out = append(out, mapOrder(o))
	}
	return out, nil
}

func mapOrder(o restOrder) types.RawOrder {
	total, err := decimal.NewFromString(o.TotalPrice)
	if err != nil {
		total = decimal.Zero
	}
	currency := o.Currency
	if currency == "" {
		currency = "EUR"
	}

	// The shop-money leg is already settled in EUR when present; prefer it
	// over converting the presentment amount through the static rate table.
	if o.TotalPriceSet != nil && o.TotalPriceSet.ShopMoney.CurrencyCode == "EUR" {
		if eur, err := decimal.NewFromString(o.TotalPriceSet.ShopMoney.Amount); err == nil {
			total = eur
			currency = "EUR"
		}
	}

	order := types.RawOrder{
		ID:                strconv.FormatInt(o.ID, 10),
		Name:              o.Name,
		CreatedAt:         o.CreatedAt.UTC(),
		TotalPrice:        total,
		Currency:          currency,
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		CancelledAt:       o.CancelledAt,
		Tags:              o.Tags,
		LineItems:         make([]types.LineItem, 0, len(o.LineItems)),
	}
	if order.FulfillmentStatus == "" {
		order.FulfillmentStatus = "unfulfilled"
	}
	if o.ShippingAddress != nil {
		order.ShippingCountry = o.ShippingAddress.CountryCode
	}
	if o.BillingAddress != nil {
		order.BillingCountry = o.BillingAddress.CountryCode
	}
	for _, li := range o.LineItems {
		item := types.LineItem{SKU: li.SKU}
		if li.ProductID != nil {
			item.ProductID = strconv.FormatInt(*li.ProductID, 10)
		}
		order.LineItems = append(order.LineItems, item)
	}
	return order
}

// nextPageURL extracts the rel="next" target from a Link header, the Admin
// REST cursor mechanism. Returns "" when there is no next page.
func nextPageURL(h http.Header) string {
	for _, link := range h.Values("Link") {
		for _, part := range strings.Split(link, ",") {
			section := strings.Split(part, ";")
			if len(section) < 2 {
				continue
			}
			if !strings.Contains(section[1], `rel="next"`) {
				continue
			}
			url := strings.TrimSpace(section[0])
			url = strings.TrimPrefix(url, "<")
			url = strings.TrimSuffix(url, ">")
			return url
		}
	}
	return ""
}
