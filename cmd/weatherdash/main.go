package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	httpapi "github.com/skycast/weatherdash/internal/api/http"
	"github.com/skycast/weatherdash/internal/config"
	"github.com/skycast/weatherdash/internal/favorites"
	"github.com/skycast/weatherdash/internal/geoloc"
	"github.com/skycast/weatherdash/internal/photos"
	"github.com/skycast/weatherdash/internal/profile"
	"github.com/skycast/weatherdash/internal/refresh"
	"github.com/skycast/weatherdash/internal/session"
	"github.com/skycast/weatherdash/internal/storage"
	"github.com/skycast/weatherdash/internal/theme"
	"github.com/skycast/weatherdash/internal/weather/openweather"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Durable key-value store backing favorites, profile and theme.
	kv, err := storage.OpenFileStore(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}

	weatherClient := openweather.NewClient(httpClient, cfg.OpenWeatherAPIKey)
	locator := geoloc.NewResolver(httpClient)
	photoClient := photos.NewClient(httpClient, cfg.UnsplashAccessKey, log)

	favStore := favorites.NewStore(kv, weatherClient, log)
	sess := session.New(weatherClient, locator, favStore, log)

	themeStore := theme.NewStore(kv, log)
	themeStore.Load()

	profileStore := profile.NewStore(kv, log)
	profileStore.Load()

	// Load persisted favorites; a non-empty list triggers the first sync.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := favStore.Load(loadCtx, sess.Unit()); err != nil {
		log.Error().Err(err).Msg("failed to load favorites")
	}
	cancelLoad()

	// Periodic re-sync keeps favorite snapshots fresh between user actions.
	refresher := refresh.New(favStore, sess.Unit, cfg.RefreshInterval, log)
	if err := refresher.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start refresher")
	}
	defer refresher.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weatherdash",
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
			"service": "weatherdash",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Session:   sess,
		Favorites: favStore,
		Theme:     themeStore,
		Profile:   profileStore,
		Photos:    photoClient,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
