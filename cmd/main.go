package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"recipe-service/internal/api"
	"recipe-service/internal/cache"
	"recipe-service/internal/config"
	"recipe-service/internal/events"
	"recipe-service/internal/repository"
	"recipe-service/internal/service"
	"recipe-service/internal/store"
	"recipe-service/migrations"
)

const (
	connectTimeout  = 2 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("recipe-service stopped")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}

	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	db, err := store.Connect(connectCtx, cfg.Mongo)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := db.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("Error disconnecting from mongo")
		}
	}()

	if err = migrations.EnsureCollections(ctx, db.Database(), 3, store.RecipesCollection, store.UsersCollection); err != nil {
		return err
	}

	publisher := newPublisher(cfg.Kafka)
	defer closePublisher(publisher)

	entityCache, closeCache := newEntityCache(ctx, cfg.Redis)
	defer closeCache()

	recipeRepo := repository.NewRecipeRepository(db.Collection(store.RecipesCollection))
	recipeService := service.NewRecipeService(recipeRepo, publisher, entityCache)
	recipeHandler := api.NewRecipeHandler(recipeService)

	userRepo := repository.NewUserRepository(db.Collection(store.UsersCollection))
	userService := service.NewUserService(userRepo, publisher, entityCache)
	userHandler := api.NewUserHandler(userService)

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Static(cfg.Server.StaticDir))

	// Routes
	api.RegisterRoutes(e, recipeHandler, userHandler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.Info().Msgf("recipe-service listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("Shutting down HTTP server")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type closingPublisher interface {
	service.EventPublisher
	Close() error
}

func newPublisher(cfg config.KafkaConfig) closingPublisher {
	if len(cfg.Brokers) == 0 {
		log.Info().Msg("KAFKA_BROKERS not set, entity events disabled")
		return events.Discard
	}
	return events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Brokers, cfg.Topic))
}

func closePublisher(p closingPublisher) {
	if err := p.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing kafka writer")
	}
}

// newEntityCache returns a nil cache when Redis is not configured or not
// reachable; the service then reads straight from Mongo.
func newEntityCache(ctx context.Context, cfg config.RedisConfig) (service.EntityCache, func()) {
	if cfg.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, entity cache disabled")
		return nil, func() {}
	}

	c := cache.New(cache.NewRedisClient(cfg.Addr), cfg.TTL.Duration)
	if err := c.Ping(ctx); err != nil {
		log.Warn().Err(err).Msgf("Redis at %s unreachable, entity cache disabled", cfg.Addr)
		_ = c.Close()
		return nil, func() {}
	}

	return c, func() {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing redis client")
		}
	}
}
