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

	"viewtube/domain/repository"
	"viewtube/infrastructure/cache"
	"viewtube/infrastructure/configuration"
	"viewtube/infrastructure/logger"
	"viewtube/infrastructure/persistence"
	"viewtube/infrastructure/pubsub"
	httpHandler "viewtube/interfaces/http"
	"viewtube/server"
	"viewtube/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence),
	// then rebuild the config: its init() ran before these files existed
	// in the environment.
	configuration.LoadEnvFromFile("config.env", ".env")
	configuration.Reload()

	app := configuration.C.App

	// MongoDB holds the catalog, users and history; without it there is
	// nothing to serve.
	mongoDb, err := persistence.NewMongoDatabase(ctx, configuration.C.Database.Mongo)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to MongoDB")
		os.Exit(1)
	}

	videoRepository := persistence.NewVideoRepository(mongoDb)
	userRepository := persistence.NewUserRepository(mongoDb)
	historyRepository := persistence.NewHistoryRepository(mongoDb)

	// Redis, Pub/Sub and Postgres are optional collaborators; the service
	// degrades without them.
	var videoCache repository.IVideoCache
	if configuration.C.RedisClient.Host != "" {
		redisClient, err := cache.NewCache(ctx, configuration.C.RedisClient)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without video cache")
		} else {
			videoCache = cache.NewVideoCache(redisClient)
		}
	}

	var videoEvents repository.IVideoEvents
	if configuration.C.Pubsub.ProjectID != "" {
		pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without lifecycle events")
		} else {
			videoEvents = pubsub.NewVideoEvents(pubSubClient)
		}
	}

	var watchSessionUsecase usecase.IWatchSessionUsecase
	if configuration.C.Database.Psql.Host != "" {
		psqlDb, err := persistence.NewPostgresDB(ctx, configuration.C.Database.Psql)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("PostgreSQL not available - continuing without watch analytics")
		} else {
			if err := persistence.EnsureWatchSessionSchema(ctx, psqlDb); err != nil {
				logger.GetLogger().WithField("error", err).Error("Failed ensuring watch_sessions schema")
			} else {
				watchSessionUsecase = usecase.NewWatchSessionUsecase(persistence.NewWatchSessionRepository(psqlDb))
			}
		}
	}

	videoUsecase := usecase.NewVideoUsecase(videoRepository)
	if videoCache != nil {
		videoUsecase = videoUsecase.WithCache(videoCache)
	}
	if videoEvents != nil {
		videoUsecase = videoUsecase.WithEvents(videoEvents)
	}
	userUsecase := usecase.NewUserUsecase(userRepository)
	historyUsecase := usecase.NewHistoryUsecase(historyRepository, videoRepository)
	recommendationUsecase := usecase.NewRecommendationUsecase(videoRepository, userRepository, historyRepository)

	userHandler := httpHandler.NewUserHandler(userUsecase)
	videoHandler := httpHandler.NewVideoHandler(videoUsecase)
	recommendationHandler := httpHandler.NewRecommendationHandler(recommendationUsecase)
	historyHandler := httpHandler.NewHistoryHandler(historyUsecase)
	watchSessionHandler := httpHandler.NewWatchSessionHandler(watchSessionUsecase)

	router := server.InitiateRouter(
		userHandler,
		videoHandler,
		recommendationHandler,
		historyHandler,
		watchSessionHandler,
		userRepository,
	)

	port := app.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
