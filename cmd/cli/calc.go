package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tuvalum/margin-service/internal/discount"
	"github.com/tuvalum/margin-service/internal/margin"
	"github.com/tuvalum/margin-service/internal/types"
)

var (
	calcPrice    float64
	calcCost     float64
	calcDiscount float64
	calcRegime   string
	calcVATRate  float64
	calcAgeDays  int
)

// calcCmd represents the calc command
var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Run an ad-hoc margin calculation",
	Long: `Computes the net margin for a hypothetical sale under the given fiscal
regime, simulates all three regimes, and when a stock age is supplied also
prints the ladder markdown recommendation.`,
	Example: `  margin-service calc --price 2000 --cost 1200 --regime REBU
  margin-service calc --price 2000 --cost 1200 --regime PRO --vat-rate 0.20
  margin-service calc --price 2000 --cost 1200 --regime REBU --age-days 200`,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().Float64Var(&calcPrice, "price", 0, "Sale price in EUR (required)")
	calcCmd.Flags().Float64Var(&calcCost, "cost", 0, "Purchase cost in EUR")
	calcCmd.Flags().Float64Var(&calcDiscount, "discount", 0, "Discount applied before tax in EUR")
	calcCmd.Flags().StringVar(&calcRegime, "regime", "PRO", "Fiscal regime: REBU, PRO or INTRA")
	calcCmd.Flags().Float64Var(&calcVATRate, "vat-rate", 0, "Destination VAT rate as a fraction, 0 uses the domestic rate")
	calcCmd.Flags().IntVar(&calcAgeDays, "age-days", -1, "Stock age in days for a markdown recommendation")
	calcCmd.MarkFlagRequired("price")
}

func runCalc(cmd *cobra.Command, args []string) error {
	if calcPrice <= 0 {
		return fmt.Errorf("price must be positive")
	}

	price := decimal.NewFromFloat(calcPrice)
	cost := decimal.NewFromFloat(calcCost)
	disc := decimal.NewFromFloat(calcDiscount)

	finalPrice := price.Sub(disc)
	if finalPrice.IsNegative() {
		finalPrice = decimal.Zero
	}

	regime := margin.ParseRegime(calcRegime)

	var net decimal.Decimal
	if calcVATRate > 0 {
		net = margin.ForCountry(regime, finalPrice, cost, decimal.Zero, decimal.NewFromFloat(calcVATRate))
	} else {
		net = margin.Net(regime, finalPrice, cost, decimal.Zero)
	}

	fmt.Printf("Final price: %s EUR\n", finalPrice.StringFixed(2))
	fmt.Printf("Net margin (%s): %s EUR\n\n", regime, net.StringFixed(2))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REGIME\tMARGIN EUR")
	for _, r := range []types.Regime{types.RegimeREBU, types.RegimePRO, types.RegimeINTRA} {
		fmt.Fprintf(w, "%s\t%s\n", r, margin.Simulate(finalPrice, cost)[r].StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if calcAgeDays >= 0 {
		rec := discount.Recommend(calcAgeDays, net, false)
		fmt.Printf("\nRecommended markdown at %d days: %s EUR (buffer %s EUR)\n",
			calcAgeDays, rec.StringFixed(0), discount.Buffer(calcAgeDays).StringFixed(0))
	}
	return nil
}
