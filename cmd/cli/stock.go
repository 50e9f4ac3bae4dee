package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tuvalum/margin-service/internal/stock"
)

var stockOutput string

// stockCmd represents the stock command
var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Run pricing control over the active inventory",
	Long: `Fetches the active inventory, buckets aged listings by stock-age tier
and prints a discount recommendation for each, bounded by the margin
safety buffer.`,
	Example: `  margin-service stock
  margin-service stock --output json`,
	RunE: runStock,
}

func init() {
	rootCmd.AddCommand(stockCmd)

	stockCmd.Flags().StringVar(&stockOutput, "output", "table", "Output format: table or json")
}

func runStock(cmd *cobra.Command, args []string) error {
	client, err := newShopifyClient()
	if err != nil {
		return err
	}

	controller := stock.NewController(
		client.Inventory(),
		decimal.NewFromFloat(cfg.Pipeline.RecondCost),
		*logger,
	)

	logger.Info().Msg("Running pricing control")

	report, err := controller.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pricing control run failed: %w", err)
	}

	logger.Info().
		Int("listings", report.Stats.Listings).
		Int("excluded", report.Stats.Excluded).
		Int("fresh", report.Stats.Fresh).
		Dur("duration", report.Stats.Duration).
		Msg("Pricing control complete")

	if stockOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, tier := range report.Tiers {
		fmt.Fprintf(w, "\n== %s days ==\n", tier.Label)
		fmt.Fprintln(w, "SKU\tAGE\tPRICE\tCOST\tMARGIN\tDISCOUNT\tNEW PRICE\tPROJECTED")
		for _, item := range tier.Items {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				item.SKU, item.StockAgeDays,
				item.CurrentPrice.StringFixed(2), item.PurchaseCost.StringFixed(2),
				item.CurrentMargin.StringFixed(2), item.RecommendedDiscount.StringFixed(0),
				item.RecommendedPrice.StringFixed(2), item.ProjectedMargin.StringFixed(2))
		}
	}
	return w.Flush()
}
