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

	httpapi "weather-session/internal/api/http"
	"weather-session/internal/config"
	"weather-session/internal/location"
	"weather-session/internal/scheduler"
	"weather-session/internal/session"
	"weather-session/internal/store"
	"weather-session/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistence: redis when configured, in-memory otherwise.
	var cityStore store.CityListStore
	var lastStore store.LastCityStore
	if cfg.RedisURL != "" {
		client, err := store.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer client.Close()

		redisStore := store.NewRedisStore(client)
		cityStore = redisStore
		lastStore = redisStore
	} else {
		log.Println("INFO: no REDIS_URL configured; saved cities will not survive restarts")
		mem := store.NewMemoryStore()
		cityStore = mem
		lastStore = mem
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey)

	ctrl := session.New(session.Config{
		Weather:      provider,
		Forecast:     provider,
		Cities:       cityStore,
		LastCity:     lastStore,
		Location:     location.NewGeocoderProvider(cfg.GeocoderAPIKey, cfg.LocationLat, cfg.LocationLon, cfg.LocationInterval),
		Zone:         cfg.Zone,
		FetchTimeout: cfg.HTTPTimeout,
	})
	ctrl.Run(ctx)

	sched := scheduler.New(ctrl, cfg.RefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-session",
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
			"service": "weather-session",
		})
	})

	httpapi.RegisterRoutes(app, ctrl)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}

	// Let in-flight fetches and write-throughs finish.
	ctrl.Wait()
}
