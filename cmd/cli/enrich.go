package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tuvalum/margin-service/internal/catalog"
	"github.com/tuvalum/margin-service/internal/enrich"
	"github.com/tuvalum/margin-service/internal/export"
)

var (
	enrichSince  string
	enrichOutput string
	enrichXLSX   string
	enrichLang   string
)

// enrichCmd represents the enrich command
var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run the order enrichment pipeline",
	Long: `Fetches orders from the commerce backend starting at the given date,
resolves their product metadata in batches, and prints the enriched records
with per-order commission, net margin and rotation.`,
	Example: `  margin-service enrich --since 2026-08-01
  margin-service enrich --since 2026-08-01 --output json
  margin-service enrich --since 2026-08-01 --xlsx ./pedidos.xlsx --lang fr`,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().StringVar(&enrichSince, "since", "", "Lower bound date (YYYY-MM-DD), defaults to two days back")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "table", "Output format: table or json")
	enrichCmd.Flags().StringVar(&enrichXLSX, "xlsx", "", "Write the snapshot to an XLSX file instead of stdout")
	enrichCmd.Flags().StringVar(&enrichLang, "lang", "es", "XLSX header locale: es, fr or en")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	since, err := resolveSince(enrichSince)
	if err != nil {
		return err
	}

	client, err := newShopifyClient()
	if err != nil {
		return err
	}

	resolver := catalog.NewResolver(
		client.Catalog(),
		cfg.Pipeline.ChunkSize,
		cfg.Pipeline.ChunkConcurrency,
		*logger,
	)

	pipeline := enrich.NewPipeline(
		enrich.OrderSourceFunc(func() enrich.OrderPager { return client.Orders() }),
		resolver,
		enrich.Config{
			MinOrderValue: decimal.NewFromFloat(cfg.Pipeline.MinOrderValue),
			RecondCost:    decimal.NewFromFloat(cfg.Pipeline.RecondCost),
			Lookback:      time.Duration(cfg.Pipeline.LookbackHours) * time.Hour,
			MaxPages:      cfg.Pipeline.MaxPages,
		},
		*logger,
	)

	logger.Info().Str("since", since.Format("2006-01-02")).Msg("Running enrichment")

	result, err := pipeline.Run(cmd.Context(), since)
	if err != nil {
		return fmt.Errorf("enrichment run failed: %w", err)
	}

	logger.Info().
		Int("pages", result.Stats.Pages).
		Int("fetched", result.Stats.Fetched).
		Int("kept", result.Stats.Kept).
		Int("rejected", result.Stats.Rejected).
		Int("returns", result.Stats.Returns).
		Int("degraded", result.Stats.Degraded).
		Bool("truncated", result.Stats.Truncated).
		Dur("duration", result.Stats.Duration).
		Msg("Enrichment complete")

	if enrichXLSX != "" {
		data, err := export.Workbook(result.Orders, export.ResolveLocale(enrichLang))
		if err != nil {
			return fmt.Errorf("failed to render workbook: %w", err)
		}
		if err := os.WriteFile(enrichXLSX, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", enrichXLSX, err)
		}
		logger.Info().Str("file", enrichXLSX).Int("orders", len(result.Orders)).Msg("Workbook written")
		return nil
	}

	if enrichOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tCOUNTRY\tCHANNEL\tTOTAL EUR\tCOST\tMARGIN\tROT DAYS\tREGIME")
	for _, o := range result.Orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			o.OrderName, o.Country, o.Channel,
			o.TotalEUR.StringFixed(2), o.PurchaseCost.StringFixed(2),
			o.NetMargin.StringFixed(2), o.StockAgeDays, o.FiscalRegime)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	summary := enrich.Summarize(result.Orders)
	fmt.Printf("\n%d orders (%d pending), revenue %s EUR, margin %s EUR\n",
		summary.Orders, summary.Pending,
		summary.Revenue.StringFixed(2), summary.Margin.StringFixed(2))
	return nil
}

func resolveSince(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC().Add(-48 * time.Hour)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	since, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid since date %q, use YYYY-MM-DD", raw)
	}
	return since, nil
}
