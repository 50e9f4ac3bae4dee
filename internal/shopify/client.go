// Package shopify implements the commerce-platform collaborators: the order
// pager, the catalog batch source, the inventory source and the live SKU
// lookup, all against the Admin API (REST for order pagination, GraphQL for
// product metadata).
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	httpclient "github.com/tuvalum/margin-service/internal/http"
	"github.com/tuvalum/margin-service/internal/http/ratelimit"
)

// DefaultAPIVersion pins the Admin API version all requests use.
const DefaultAPIVersion = "2024-01"

// Metafield namespace/keys for the ERP-synced custom fields.
const (
	metafieldNamespace = "custom"
	keyPurchaseCost    = "custitem_preciocompra"
	keyFiscalOrigin    = "cseg_origenfiscal"
	keySubcategory     = "cseg_subcategoria"
	keyMotor           = "custitem_motor"
	keyMileage         = "custitem_kilometraje"
	keyRetailPrice     = "custitem_precioventapvp"
)

// Config holds the Admin API connection settings.
type Config struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
	RateLimit   ratelimit.Config
}

// Client is a thin Admin API client shared by the collaborator
// implementations in this package.
type Client struct {
	http       *httpclient.Client
	baseURL    string
	apiVersion string
	logger     zerolog.Logger
}

// NewClient builds an Admin API client. The access token rides on every
// request via the X-Shopify-Access-Token header.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	rl := cfg.RateLimit
	if rl.RequestsPerSecond == 0 {
		rl = ratelimit.DefaultConfig()
	}
	return &Client{
		http: httpclient.NewClient(rl, map[string]string{
			"X-Shopify-Access-Token": cfg.AccessToken,
			"Content-Type":           "application/json",
		}),
		baseURL:    "https://" + cfg.ShopDomain,
		apiVersion: version,
		logger:     logger.With().Str("component", "shopify_client").Logger(),
	}
}

// restURL builds an Admin REST URL for the given resource path, e.g.
// "orders.json?status=any".
func (c *Client) restURL(path string) string {
	return fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL, c.apiVersion, path)
}

// graphqlError is a single error entry in a GraphQL response envelope.
type graphqlError struct {
	Message string `json:"message"`
}

// graphql posts a query to the GraphQL endpoint and unmarshals the "data"
// object into out. Top-level GraphQL errors fail the call; per-alias nulls
// are the caller's concern.
func (c *Client) graphql(ctx context.Context, query string, out any) error {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return fmt.Errorf("encode graphql query: %w", err)
	}

	resp, err := c.http.Do(ctx, "POST", c.restURL("graphql.json"), payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read graphql response: %w", err)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode graphql envelope: %w", err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("graphql: empty data object")
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}

// metafieldValue is the {"value": "..."} shape of a metafield node; the node
// itself may be null when the field is unset.
type metafieldValue struct {
	Value string `json:"value"`
}

func (m *metafieldValue) get() string {
	if m == nil {
		return ""
	}
	return m.Value
}
