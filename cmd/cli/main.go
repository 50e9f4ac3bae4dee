package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tuvalum/margin-service/config"
	"github.com/tuvalum/margin-service/internal/http/ratelimit"
	"github.com/tuvalum/margin-service/internal/shopify"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "margin-service",
	Short: "Margin Service CLI - Order enrichment and pricing control tool",
	Long: `A CLI tool for running the order enrichment pipeline, pricing control
over the active inventory, and ad-hoc margin calculations against the
Tuvalum commerce backend.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config is optional for some commands, don't fail here
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	// Initialize logger (use console format for CLI)
	logger = initLogger()
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Always use console format for CLI
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stdout
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

// newShopifyClient builds the Admin API client from the loaded config.
func newShopifyClient() (*shopify.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config not loaded")
	}
	if cfg.Shopify.ShopDomain == "" || cfg.Shopify.AccessToken == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN and SHOPIFY_ACCESS_TOKEN must be set")
	}

	return shopify.NewClient(shopify.Config{
		ShopDomain:  cfg.Shopify.ShopDomain,
		AccessToken: cfg.Shopify.AccessToken,
		APIVersion:  cfg.Shopify.APIVersion,
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			MaxRetries:        cfg.RateLimit.MaxRetries,
			InitialBackoffMs:  cfg.RateLimit.InitialBackoffMs,
			MaxBackoffMs:      cfg.RateLimit.MaxBackoffMs,
		},
	}, *logger), nil
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
