package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/tuvalum/margin-service/config"
	_ "github.com/tuvalum/margin-service/docs"
	"github.com/tuvalum/margin-service/internal/audit"
	"github.com/tuvalum/margin-service/internal/catalog"
	"github.com/tuvalum/margin-service/internal/database"
	"github.com/tuvalum/margin-service/internal/enrich"
	"github.com/tuvalum/margin-service/internal/handlers"
	"github.com/tuvalum/margin-service/internal/http/ratelimit"
	"github.com/tuvalum/margin-service/internal/middleware"
	"github.com/tuvalum/margin-service/internal/shopify"
	"github.com/tuvalum/margin-service/internal/stock"
	"github.com/tuvalum/margin-service/internal/telemetry"
)

// @title Margin Service API
// @version 1.0
// @description Internal API for order enrichment, margin computation, pricing control and discount recommendations.
// @BasePath /internal
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting margin service")

	ctx := context.Background()

	telemetryCleanup := telemetry.MustInit(ctx, telemetry.GetConfigFromEnv())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetryCleanup(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	// The audit store is optional: without a database the service still
	// serves snapshots, it just keeps no run history.
	var auditStore *audit.Store
	if dbURL := config.GetDatabaseURL(); dbURL != "" {
		if err := database.Connect(
			ctx,
			dbURL,
			cfg.Database.MaxConnections,
			cfg.Database.MinConnections,
			cfg.Database.MaxConnLifetime,
			cfg.Database.MaxConnIdleTime,
		); err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer database.Close()

		auditStore = audit.NewStore(database.Pool())
		if err := auditStore.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to ensure audit schema")
		}
		logger.Info().Msg("Database connected")
	} else {
		logger.Warn().Msg("DATABASE_URL not set, run history disabled")
	}

	if cfg.Shopify.ShopDomain == "" || cfg.Shopify.AccessToken == "" {
		logger.Fatal().Msg("SHOPIFY_SHOP_DOMAIN and SHOPIFY_ACCESS_TOKEN must be set")
	}

	client := shopify.NewClient(shopify.Config{
		ShopDomain:  cfg.Shopify.ShopDomain,
		AccessToken: cfg.Shopify.AccessToken,
		APIVersion:  cfg.Shopify.APIVersion,
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			MaxRetries:        cfg.RateLimit.MaxRetries,
			InitialBackoffMs:  cfg.RateLimit.InitialBackoffMs,
			MaxBackoffMs:      cfg.RateLimit.MaxBackoffMs,
		},
	}, *logger)

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

	recorder := audit.NewEnrichmentRecorder(pipeline, auditStore, *logger)
	cache := enrich.NewCache(recorder, cfg.Cache.TTL)

	controller := stock.NewController(
		client.Inventory(),
		decimal.NewFromFloat(cfg.Pipeline.RecondCost),
		*logger,
	)

	handlers.InitOrders(cache)
	handlers.InitStock(controller, auditStore)
	handlers.InitSKU(client)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(cfg.Server.APIKey))
	internal.Use(middleware.ServiceRateLimitMiddleware(50, 100))
	{
		internal.GET("/health", handlers.HealthCheck)

		orders := internal.Group("/orders")
		{
			orders.GET("/enriched", handlers.GetEnrichedOrders)
			orders.GET("/summary", handlers.GetOrdersSummary)
			orders.GET("/export", handlers.ExportOrders)
		}

		internal.GET("/stock/control", handlers.StockControl)
		internal.GET("/sku/:sku", handlers.GetSKU)

		calculator := internal.Group("/calculator")
		{
			calculator.POST("/margin", handlers.CalculateMargin)
			calculator.POST("/discount", handlers.CalculateDiscount)
		}

		internal.GET("/runs", handlers.ListRuns)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "margin-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
