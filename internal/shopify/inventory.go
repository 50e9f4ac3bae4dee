package shopify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuvalum/margin-service/internal/types"
)

// inventoryPageSize keeps each listings query inside the GraphQL cost budget.
const inventoryPageSize = 100

// listingNode is the product shape returned by the active-listings query.
type listingNode struct {
	LegacyResourceID string    `json:"legacyResourceId"`
	Title            string    `json:"title"`
	Tags             []string  `json:"tags"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	TotalInventory   int       `json:"totalInventory"`
	FeaturedImage    *struct {
		URL string `json:"url"`
	} `json:"featuredImage"`
	Variants struct {
		Edges []struct {
			Node struct {
				SKU            string `json:"sku"`
				Price          string `json:"price"`
				CompareAtPrice string `json:"compareAtPrice"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	Cost   *metafieldValue `json:"metafield"`
	Fiscal *metafieldValue `json:"fiscal"`
}

type listingsPage struct {
	Products struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Edges []struct {
			Node listingNode `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

// InventorySource fetches the active-listings snapshot for pricing control.
type InventorySource struct {
	client *Client
}

// Inventory returns the inventory collaborator.
func (c *Client) Inventory() *InventorySource {
	return &InventorySource{client: c}
}

// ActiveListings walks all active products and returns those with positive
// inventory. Cursor pagination is sequential.
func (s *InventorySource) ActiveListings(ctx context.Context) ([]types.Listing, error) {
	var out []types.Listing
	cursor := ""

	for {
		after := ""
		if cursor != "" {
			after = fmt.Sprintf(", after: %q", cursor)
		}
		query := fmt.Sprintf(`{
			products(first: %d%s, query: "status:active") {
				pageInfo { hasNextPage endCursor }
				edges { node {
					legacyResourceId title tags createdAt updatedAt totalInventory
					featuredImage { url }
					variants(first: 1) { edges { node { sku price compareAtPrice } } }
					metafield(namespace: %q, key: %q) { value }
					fiscal: metafield(namespace: %q, key: %q) { value }
				} }
			}
		}`, inventoryPageSize, after,
			metafieldNamespace, keyPurchaseCost,
			metafieldNamespace, keyFiscalOrigin,
		)

		var page listingsPage
		if err := s.client.graphql(ctx, query, &page); err != nil {
			return nil, err
		}

		for _, edge := range page.Products.Edges {
			node := edge.Node
			if node.TotalInventory <= 0 {
				continue
			}
			out = append(out, mapListing(node))
		}

		if !page.Products.PageInfo.HasNextPage {
			return out, nil
		}
		cursor = page.Products.PageInfo.EndCursor
	}
}

func mapListing(node listingNode) types.Listing {
	listing := types.Listing{
		ProductID: node.LegacyResourceID,
		Title:     node.Title,
		Tags:      strings.Join(node.Tags, ", "),
		Quantity:  node.TotalInventory,
		CostRaw:   node.Cost.get(),
		FiscalTag: node.Fiscal.get(),
		CreatedAt: node.CreatedAt.UTC(),
		UpdatedAt: node.UpdatedAt.UTC(),
	}
	if node.FeaturedImage != nil {
		listing.ImageURL = node.FeaturedImage.URL
	}
	if len(node.Variants.Edges) > 0 {
		v := node.Variants.Edges[0].Node
		listing.SKU = v.SKU
		listing.Price = parsePrice(v.Price)
		listing.CompareAtPrice = parsePrice(v.CompareAtPrice)
	}
	return listing
}

func parsePrice(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
