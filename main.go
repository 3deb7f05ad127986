package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trivia-service/config"
	"trivia-service/internal/client"
	"trivia-service/internal/dto"
	"trivia-service/internal/game"
	"trivia-service/internal/handlers"
	"trivia-service/internal/logger"
	"trivia-service/internal/middleware"
	"trivia-service/internal/repository"
	"trivia-service/internal/service"
	ws "trivia-service/internal/websocket"
	"trivia-service/migrations"
	"trivia-service/pkg/cache"
	"trivia-service/pkg/database"
	"trivia-service/pkg/messaging"
	"trivia-service/pkg/storage"
)

const serviceName = "trivia-service"

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := database.NewPostgresClient(&cfg.DB)
	if err != nil {
		log.Warn("postgres unavailable, results will not be persisted", zap.Error(err))
		pgClient = nil
	} else {
		log.Info("connected to postgres")
		defer pgClient.Close()

		if err := database.Migrate(pgClient.GetDB(), migrations.FS); err != nil {
			log.Fatal("failed to apply migrations", zap.Error(err))
		}
		log.Info("migrations applied")
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, approved questions will not be cached", zap.Error(err))
		redisClient = nil
	} else {
		log.Info("connected to redis")
		defer redisClient.Close()
	}

	deps := game.Dependencies{}

	if source := questionSource(cfg, pgClient, log); source != nil {
		if closer, ok := source.(io.Closer); ok {
			defer closer.Close()
		}
		var questionCache service.Cache
		if redisClient != nil {
			questionCache = redisClient
		}
		deps.Approved = service.NewQuestionService(source, questionCache, cfg.Questions.CacheTTL, log)
	}

	var publisher service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbit, err := messaging.NewRabbitMQClient(cfg.RabbitMQ.URL)
		if err != nil {
			log.Warn("rabbitmq unavailable, game reports will not be published", zap.Error(err))
		} else {
			log.Info("connected to rabbitmq")
			defer rabbit.Close()
			publisher = rabbit
		}
	}

	var archive service.Archive
	if cfg.S3.Enabled {
		s3Ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		s3, err := storage.NewS3Client(s3Ctx, &cfg.S3)
		cancel()
		if err != nil {
			log.Warn("s3 unavailable, game reports will not be archived", zap.Error(err))
		} else {
			log.Info("connected to s3", zap.String("bucket", cfg.S3.Bucket))
			archive = s3
		}
	}

	var resultsRepo *repository.ResultsRepository
	if pgClient != nil {
		resultsRepo = repository.NewResultsRepository(pgClient.GetDB())
		results := service.NewResultsService(resultsRepo, publisher, archive, log)
		deps.Results = results
		deps.Reports = results
	} else if publisher != nil || archive != nil {
		deps.Reports = service.NewResultsService(nil, publisher, archive, log)
	}

	hub := ws.NewHub(engineConfig(cfg.Game), deps, log)
	go hub.Run(ctx)
	log.Info("websocket hub started")

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Service: serviceName})
	})

	router.GET("/ready", func(c *gin.Context) {
		checkCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		if pgClient != nil {
			checks["postgres"] = status(pgClient.Ping(checkCtx))
			ready = ready && checks["postgres"] == "ok"
		}
		if redisClient != nil {
			checks["redis"] = status(redisClient.Ping(checkCtx))
			ready = ready && checks["redis"] == "ok"
		}
		checks["hub"] = status(hub.Do(checkCtx, func(*game.Engine) {}))
		ready = ready && checks["hub"] == "ok"

		if !ready {
			c.JSON(http.StatusServiceUnavailable, dto.ReadyResponse{Status: "not ready", Checks: checks})
			return
		}
		c.JSON(http.StatusOK, dto.ReadyResponse{Status: "ready", Checks: checks})
	})

	roomHandler := handlers.NewRoomHandler(hub, cfg, log)
	api := router.Group("/api")
	{
		api.GET("/themes", roomHandler.GetThemes)
		api.GET("/modes", roomHandler.GetModes)
		api.GET("/stats", roomHandler.GetStats)
		api.GET("/rooms/:code", roomHandler.GetRoom)
		api.GET("/rooms/:code/qr", roomHandler.GetRoomQR)
	}

	if pgClient != nil {
		playerHandler := handlers.NewPlayerHandler(repository.NewQuestionRepository(pgClient.GetDB()), resultsRepo, log)
		authed := api.Group("", middleware.JWTAuth(cfg.Auth.JWTSecret, false))
		{
			authed.POST("/questions", playerHandler.SubmitQuestion)
			authed.POST("/questions/:id/vote", playerHandler.VoteQuestion)
			authed.GET("/me/stats", playerHandler.GetStats)
			authed.GET("/me/history", playerHandler.GetHistory)
		}
	}

	wsHandler := handlers.NewWebSocketHandler(hub, cfg, log)
	router.GET("/ws", wsHandler.HandleWebSocket)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server starting", zap.String("port", cfg.Server.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}

	log.Info("trivia service stopped")
}

func questionSource(cfg *config.Config, pgClient *database.PostgresClient, log *zap.Logger) service.QuestionSource {
	switch cfg.Questions.Source {
	case "grpc":
		c, err := client.NewQuestionClient(cfg.Questions.Host, cfg.Questions.Port)
		if err != nil {
			log.Warn("question bank unavailable, using static questions only", zap.Error(err))
			return nil
		}
		log.Info("using question bank service", zap.String("host", cfg.Questions.Host))
		return c
	case "postgres":
		if pgClient == nil {
			return nil
		}
		return repository.NewQuestionRepository(pgClient.GetDB())
	default:
		return nil
	}
}

func engineConfig(g config.GameConfig) game.Config {
	return game.Config{
		LobbyDelay:     g.LobbyDelay,
		RevealGrace:    g.RevealGrace,
		BettingWindow:  g.BettingWindow,
		RematchWindow:  g.RematchWindow,
		MinPlayers:     g.MinPlayers,
		MaxPlayers:     g.MaxPlayers,
		MaxBots:        g.MaxBots,
		FetchTimeout:   g.FetchTimeout,
		PersistTimeout: g.PersistTimeout,
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

func status(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}
