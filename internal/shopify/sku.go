package shopify

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SKUDetail is the live lookup result consumed by the what-if calculator.
type SKUDetail struct {
	SKU       string          `json:"sku"`
	Title     string          `json:"title"`
	CreatedAt time.Time       `json:"createdAt"`
	CostRaw   string          `json:"costRaw"`
	FiscalTag string          `json:"fiscalTag"`
	Price     decimal.Decimal `json:"price"`
	// RetailPrice is the ERP list price, which can differ from the live
	// variant price during a promotion.
	RetailPrice decimal.Decimal `json:"retailPrice"`
}

// LookupSKU fetches one product by SKU. Returns (nil, nil) when the SKU does
// not match any product.
func (c *Client) LookupSKU(ctx context.Context, sku string) (*SKUDetail, error) {
	query := fmt.Sprintf(`{
		products(first: 1, query: "sku:%s") {
			edges { node {
				title createdAt
				metafield(namespace: %q, key: %q) { value }
				fiscal: metafield(namespace: %q, key: %q) { value }
				retail: metafield(namespace: %q, key: %q) { value }
				variants(first: 1) { edges { node { price } } }
			} }
		}
	}`, sku,
		metafieldNamespace, keyPurchaseCost,
		metafieldNamespace, keyFiscalOrigin,
		metafieldNamespace, keyRetailPrice,
	)

	var data struct {
		Products struct {
			Edges []struct {
				Node struct {
					Title     string          `json:"title"`
					CreatedAt time.Time       `json:"createdAt"`
					Cost      *metafieldValue `json:"metafield"`
					Fiscal    *metafieldValue `json:"fiscal"`
					Retail    *metafieldValue `json:"retail"`
					Variants  struct {
						Edges []struct {
							Node struct {
								Price string `json:"price"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"variants"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.graphql(ctx, query, &data); err != nil {
		return nil, err
	}
	if len(data.Products.Edges) == 0 {
		return nil, nil
	}

	node := data.Products.Edges[0].Node
	detail := &SKUDetail{
		SKU:         sku,
		Title:       node.Title,
		CreatedAt:   node.CreatedAt.UTC(),
		CostRaw:     node.Cost.get(),
		FiscalTag:   node.Fiscal.get(),
		RetailPrice: parsePrice(node.Retail.get()),
	}
	if len(node.Variants.Edges) > 0 {
		detail.Price = parsePrice(node.Variants.Edges[0].Node.Price)
	}
	return detail, nil
}
