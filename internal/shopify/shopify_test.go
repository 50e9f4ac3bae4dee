package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuvalum/margin-service/internal/http/ratelimit"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		ShopDomain:  "test-shop.myshopify.com",
		AccessToken: "shpat_test",
		RateLimit: ratelimit.Config{
			RequestsPerSecond: 1000,
			MaxRetries:        0,
			InitialBackoffMs:  1,
			MaxBackoffMs:      1,
		},
	}, zerolog.Nop())
	// Point the client at the test server instead of the real shop.
	c.baseURL = srv.URL
	return c, srv
}

func TestOrderPagerWalksLinkHeader(t *testing.T) {
	page2 := `{"orders": [{"id": 2, "name": "#1002", "created_at": "2026-08-01T10:00:00Z",
		"total_price": "900.00", "currency": "EUR", "financial_status": "paid", "line_items": []}]}`
	page1 := `{"orders": [{"id": 1, "name": "#1001", "created_at": "2026-08-10T10:00:00Z",
		"total_price": "1500.00", "currency": "EUR", "financial_status": "paid",
		"line_items": [{"product_id": 777, "sku": "B1234"}]}]}`

	var baseURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/api/2024-01/orders.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		if r.URL.Query().Get("page_info") == "cursor2" {
			fmt.Fprint(w, page2)
			return
		}
		assert.Equal(t, "any", r.URL.Query().Get("status"))
		w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-01/orders.json?page_info=cursor2>; rel="next"`, baseURL))
		fmt.Fprint(w, page1)
	})

	c, srv := testClient(t, mux)
	baseURL = srv.URL

	pager := c.Orders()

	first, err := pager.Next(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "1", first[0].ID)
	assert.Equal(t, "#1001", first[0].Name)
	require.Len(t, first[0].LineItems, 1)
	assert.Equal(t, "777", first[0].LineItems[0].ProductID)

	second, err := pager.Next(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "2", second[0].ID)

	// Exhausted: page 2 carried no Link header.
	last, err := pager.Next(context.Background())
	require.NoError(t, err)
	assert.Empty(t, last)
}

func TestMapOrderPrefersShopMoneyEUR(t *testing.T) {
	var o restOrder
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 5, "name": "#1005", "created_at": "2026-08-10T10:00:00Z",
		"total_price": "6500.00", "currency": "PLN",
		"total_price_set": {"shop_money": {"amount": "1495.00", "currency_code": "EUR"}},
		"financial_status": "paid"
	}`), &o))

	got := mapOrder(o)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(1495)))
	assert.Equal(t, "EUR", got.Currency)
}

func TestMapOrderKeepsLocalCurrencyWithoutShopMoney(t *testing.T) {
	var o restOrder
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 6, "name": "#1006", "created_at": "2026-08-10T10:00:00Z",
		"total_price": "6500.00", "currency": "PLN", "financial_status": "paid"
	}`), &o))

	got := mapOrder(o)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(6500)))
	assert.Equal(t, "PLN", got.Currency)
	assert.Equal(t, "unfulfilled", got.FulfillmentStatus)
}

func TestNextPageURL(t *testing.T) {
	h := http.Header{}
	h.Set("Link", `<https://shop/admin/orders.json?page_info=prev>; rel="previous", <https://shop/admin/orders.json?page_info=next>; rel="next"`)
	assert.Equal(t, "https://shop/admin/orders.json?page_info=next", nextPageURL(h))

	h = http.Header{}
	h.Set("Link", `<https://shop/admin/orders.json?page_info=prev>; rel="previous"`)
	assert.Empty(t, nextPageURL(h))

	assert.Empty(t, nextPageURL(http.Header{}))
}

func TestCatalogFetchBatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/api/2024-01/graphql.json", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Contains(t, payload.Query, `gid://shopify/Product/111`)
		assert.Contains(t, payload.Query, `gid://shopify/Product/222`)
		assert.Contains(t, payload.Query, "custitem_preciocompra")

		fmt.Fprint(w, `{"data": {
			"p0": {
				"title": "Orbea Orca M20", "vendor": "Orbea", "productType": "Bicicleta",
				"createdAt": "2026-02-01T00:00:00Z",
				"metafield": {"value": "1200,50"},
				"fiscal": {"value": "Margen REBU"},
				"category": {"value": "Carretera"},
				"motor": null, "mileage": null
			},
			"p1": null
		}}`)
	})

	c, _ := testClient(t, mux)
	got, err := c.Catalog().FetchBatch(context.Background(), []string{"111", "222"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	rec := got["111"]
	assert.Equal(t, "Orbea Orca M20", rec.Title)
	assert.Equal(t, "Orbea", rec.Vendor)
	assert.Equal(t, "1200,50", rec.CostRaw)
	assert.Equal(t, "Margen REBU", rec.FiscalTag)
	assert.Equal(t, "Carretera", rec.SubcategoryTag)
	assert.Empty(t, rec.Motor)
}

func TestCatalogFetchBatchGraphQLError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/api/2024-01/graphql.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors": [{"message": "Throttled"}]}`)
	})

	c, _ := testClient(t, mux)
	_, err := c.Catalog().FetchBatch(context.Background(), []string{"111"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Throttled")
}

func TestInventoryActiveListings(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/api/2024-01/graphql.json", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, `{"data": {"products": {
				"pageInfo": {"hasNextPage": true, "endCursor": "cur1"},
				"edges": [
					{"node": {"legacyResourceId": "111", "title": "Orbea Orca", "tags": ["carretera"],
						"createdAt": "2026-01-01T00:00:00Z", "updatedAt": "2026-08-01T00:00:00Z",
						"totalInventory": 1,
						"variants": {"edges": [{"node": {"sku": "B1111", "price": "2500.00", "compareAtPrice": "2900.00"}}]},
						"metafield": {"value": "1500"}, "fiscal": {"value": "REBU"}}},
					{"node": {"legacyResourceId": "112", "title": "Sold out", "tags": [],
						"createdAt": "2026-01-01T00:00:00Z", "updatedAt": "2026-08-01T00:00:00Z",
						"totalInventory": 0, "variants": {"edges": []}}}
				]
			}}}`)
			return
		}
		fmt.Fprint(w, `{"data": {"products": {
			"pageInfo": {"hasNextPage": false, "endCursor": ""},
			"edges": [
				{"node": {"legacyResourceId": "113", "title": "Cube Stereo", "tags": ["mtb", "e-bike"],
					"createdAt": "2026-03-01T00:00:00Z", "updatedAt": "2026-08-01T00:00:00Z",
					"totalInventory": 2,
					"variants": {"edges": [{"node": {"sku": "B1113", "price": "3200.00", "compareAtPrice": ""}}]}}}
			]
		}}}`)
	})

	c, _ := testClient(t, mux)
	got, err := c.Inventory().ActiveListings(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, calls)

	assert.Equal(t, "111", got[0].ProductID)
	assert.Equal(t, "B1111", got[0].SKU)
	assert.True(t, got[0].Price.Equal(decimal.NewFromInt(2500)))
	assert.True(t, got[0].CompareAtPrice.Equal(decimal.NewFromInt(2900)))
	assert.Equal(t, "1500", got[0].CostRaw)

	assert.Equal(t, "113", got[1].ProductID)
	assert.Equal(t, "mtb, e-bike", got[1].Tags)
	assert.True(t, got[1].CompareAtPrice.IsZero())
}

func TestLookupSKU(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/api/2024-01/graphql.json", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Contains(t, payload.Query, "sku:B2837")

		fmt.Fprint(w, `{"data": {"products": {"edges": [{"node": {
			"title": "Specialized Tarmac SL7", "createdAt": "2026-05-01T00:00:00Z",
			"metafield": {"value": "1800"},
			"fiscal": {"value": "PRO"},
			"retail": {"value": "3400"},
			"variants": {"edges": [{"node": {"price": "3200.00"}}]}
		}}]}}}`)
	})

	c, _ := testClient(t, mux)
	got, err := c.LookupSKU(context.Background(), "B2837")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Specialized Tarmac SL7", got.Title)
	assert.Equal(t, "1800", got.CostRaw)
	assert.Equal(t, "PRO", got.FiscalTag)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(3200)))
	assert.True(t, got.RetailPrice.Equal(decimal.NewFromInt(3400)))
}

func TestLookupSKUNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/api/2024-01/graphql.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"products": {"edges": []}}}`)
	})

	c, _ := testClient(t, mux)
	got, err := c.LookupSKU(context.Background(), "NOPE")

	require.NoError(t, err)
	assert.Nil(t, got)
}
