package shopify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tuvalum/margin-service/internal/types"
)

// productNode is the aliased product shape returned by the catalog batch
// query. Any field may be null for sparsely-filled catalog records.
type productNode struct {
	Title       string          `json:"title"`
	Vendor      string          `json:"vendor"`
	ProductType string          `json:"productType"`
	CreatedAt   time.Time       `json:"createdAt"`
	Cost        *metafieldValue `json:"metafield"`
	Fiscal      *metafieldValue `json:"fiscal"`
	Category    *metafieldValue `json:"category"`
	Motor       *metafieldValue `json:"motor"`
	Mileage     *metafieldValue `json:"mileage"`
}

// CatalogSource queries product metadata in aliased batches: one GraphQL
// request per chunk instead of one REST call per product.
type CatalogSource struct {
	client *Client
}

// Catalog returns the batch-queryable catalog collaborator.
func (c *Client) Catalog() *CatalogSource {
	return &CatalogSource{client: c}
}

// FetchBatch fetches metadata for the given product IDs in a single request.
// IDs missing from the catalog are absent from the returned map.
func (s *CatalogSource) FetchBatch(ctx context.Context, ids []string) (map[string]types.RawProductMetadata, error) {
	if len(ids) == 0 {
		return map[string]types.RawProductMetadata{}, nil
	}

	var query strings.Builder
	query.WriteString("{")
	for idx, id := range ids {
		fmt.Fprintf(&query, `
			p%d: product(id: "gid://shopify/Product/%s") {
				title vendor productType createdAt
				metafield(namespace: %q, key: %q) { value }
				fiscal: metafield(namespace: %q, key: %q) { value }
				category: metafield(namespace: %q, key: %q) { value }
				motor: metafield(namespace: %q, key: %q) { value }
				mileage: metafield(namespace: %q, key: %q) { value }
			}`,
			idx, id,
			metafieldNamespace, keyPurchaseCost,
			metafieldNamespace, keyFiscalOrigin,
			metafieldNamespace, keySubcategory,
			metafieldNamespace, keyMotor,
			metafieldNamespace, keyMileage,
		)
	}
	query.WriteString("\n}")

	data := make(map[string]*productNode, len(ids))
	if err := s.client.graphql(ctx, query.String(), &data); err != nil {
		return nil, err
	}

	out := make(map[string]types.RawProductMetadata, len(ids))
	for idx, id := range ids {
		node := data[fmt.Sprintf("p%d", idx)]
		if node == nil {
			continue
		}
		out[id] = types.RawProductMetadata{
			ProductID:      id,
			Title:          node.Title,
			Vendor:         node.Vendor,
			CreatedAt:      node.CreatedAt.UTC(),
			CostRaw:        node.Cost.get(),
			FiscalTag:      node.Fiscal.get(),
			SubcategoryTag: node.Category.get(),
			Motor:          node.Motor.get(),
			Mileage:        node.Mileage.get(),
		}
	}
	return out, nil
}
