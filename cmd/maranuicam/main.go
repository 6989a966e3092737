package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/bethellan/MaranuiCam/internal/api/http"
	"github.com/bethellan/MaranuiCam/internal/config"
	"github.com/bethellan/MaranuiCam/internal/forecast"
	"github.com/bethellan/MaranuiCam/internal/forecast/providers"
	"github.com/bethellan/MaranuiCam/internal/observability"
	"github.com/bethellan/MaranuiCam/internal/scheduler"
	"github.com/bethellan/MaranuiCam/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.ProviderTimeout,
	}

	metrics := observability.NewMetrics()

	providerSet := forecast.ProviderSet{
		Atmospheric: providers.NewOpenMeteoProvider(httpClient, cfg.Timezone),
		Marine:      providers.NewOpenMeteoMarineProvider(httpClient, cfg.Timezone),
		Sun:         providers.NewSunriseSunsetProvider(httpClient),
	}

	// The authoritative tide adapters exist only when a credential is
	// configured; without one the harmonic fallback covers tides.
	if cfg.TideConfigured() {
		wt := providers.NewWorldTidesProvider(httpClient, cfg.WorldTidesAPIKey)
		providerSet.TideHeights = wt
		providerSet.TideEvents = wt
	} else {
		log.Println("INFO: WORLDTIDES_API_KEY not set; tide heights will be synthesized")
	}

	service := forecast.NewService(providerSet, forecast.Options{
		Latitude:        cfg.Latitude,
		Longitude:       cfg.Longitude,
		Location:        cfg.Timezone,
		ProviderTimeout: cfg.ProviderTimeout,
		SyntheticSeed:   cfg.SyntheticSeed,
		Metrics:         metrics,
	})

	memStore := store.NewMemoryStore(cfg.StoreMaxAge, nil)

	// Scheduler that keeps today's dataset fresh.
	sched := scheduler.New(service, memStore, cfg.RefreshInterval, metrics)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Prometheus metrics on their own listener.
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server stopped: %v", err)
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:               "maranuicam",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "maranuicam",
		})
	})

	httpapi.RegisterRoutes(app, service, memStore, httpapi.DayWindow{
		MaxPastDays:   cfg.MaxPastDays,
		MaxFutureDays: cfg.MaxFutureDays,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("error shutting down metrics server: %v", err)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
