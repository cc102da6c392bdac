package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/seu-repo/appliance-store/internal/adapter/cache"
	"github.com/seu-repo/appliance-store/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/appliance-store/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/appliance-store/internal/adapter/queue"
	"github.com/seu-repo/appliance-store/internal/adapter/speech"
	"github.com/seu-repo/appliance-store/internal/adapter/speech/gtts"
	"github.com/seu-repo/appliance-store/internal/adapter/speech/vosk"
	"github.com/seu-repo/appliance-store/internal/adapter/storage/postgres"
	"github.com/seu-repo/appliance-store/internal/adapter/vault"
	wsAdapter "github.com/seu-repo/appliance-store/internal/adapter/websocket"
	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/observability/telemetry"
	"github.com/seu-repo/appliance-store/internal/ports"
	"github.com/seu-repo/appliance-store/internal/service/assistant"
	"github.com/seu-repo/appliance-store/internal/service/catalog"
	"github.com/seu-repo/appliance-store/internal/service/email"
	"github.com/seu-repo/appliance-store/internal/service/health"
	"github.com/seu-repo/appliance-store/internal/service/order"
	"github.com/seu-repo/appliance-store/internal/service/review"
	"github.com/seu-repo/appliance-store/pkg/config"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Starting appliance store",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Overlay secrets from Vault
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token, logger)
		if err != nil {
			logger.Fatal("Failed to create vault client", zap.Error(err))
		}
		if err := secrets.Apply(ctx, cfg); err != nil {
			logger.Fatal("Failed to read secrets from vault", zap.Error(err))
		}
	}

	// 4. Initialize OpenTelemetry
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(telemetry.TracerConfig{
			ServiceName:    cfg.OpenTelemetry.ServiceName,
			ServiceVersion: cfg.App.Version,
			Endpoint:       cfg.OpenTelemetry.Jaeger.Endpoint,
			SampleRate:     cfg.OpenTelemetry.Jaeger.SamplerParam,
		})
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL
	db, err := postgres.NewConnection(postgres.Options{
		URL:             cfg.Database.URL,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogSQL:          cfg.Database.LogQueries,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer postgres.Close(db) //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// 6. Initialize Cache
	store := newCache(ctx, cfg, logger)
	defer store.Close()

	// 7. Initialize Message Queue
	messageQueue, err := queue.New(cfg.Queue.Driver, cfg.Queue.NATSURL, cfg.Queue.RabbitMQURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer messageQueue.Close()

	// 8. Initialize Repositories
	productRepo := postgres.NewProductRepository(db, logger)
	orderRepo := postgres.NewOrderRepository(db, logger)
	reviewRepo := postgres.NewReviewRepository(db, logger)

	// 9. Initialize Speech Collaborators
	synthesizer, transcriber := newSpeech(cfg, store, logger)

	// 10. Initialize Services
	emailService, err := email.NewService(email.Config{
		Provider:       cfg.Email.Provider,
		FromEmail:      cfg.Email.From,
		FromName:       cfg.Email.FromName,
		SendGridAPIKey: cfg.Email.APIKey,
		StoreURL:       cfg.App.StoreURL,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service", zap.Error(err))
	}

	assistantService := assistant.NewService(synthesizer, transcriber, messageQueue, assistant.Config{
		SynthesisTimeout: cfg.Speech.SynthesisTimeout,
	}, logger)
	catalogService := catalog.NewService(productRepo, store, messageQueue, logger)
	orderService := order.NewService(orderRepo, productRepo, emailService, messageQueue, logger)
	reviewService := review.NewService(reviewRepo, productRepo, orderRepo, logger)

	healthService := health.NewService(cfg.App.Version, logger)
	healthService.Register("database", databaseProbe(db))
	healthService.RegisterOptional("cache", func(ctx context.Context) error { return store.Ping() })

	// 11. Initialize WebSocket endpoints
	hub := wsAdapter.NewHub(logger)
	go hub.Run(ctx)
	assistantStream := wsAdapter.NewAssistantStream(assistantService, logger)

	// 12. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	if cfg.RateLimiting.Enabled {
		app.Use(middleware.RateLimit(cfg.RateLimiting.MaxRequests, cfg.RateLimiting.Window))
	}

	health.NewHandler(healthService).RegisterRoutes(app)

	if cfg.Prometheus.Enabled {
		metrics := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metrics(c.Context())
			return nil
		})
	}

	// API v1 Routes
	v1 := app.Group("/api/v1")
	if cfg.CircuitBreaker.Enabled {
		v1.Use(middleware.CircuitBreaker("api", logger))
	}
	handlers.NewAssistantHandler(assistantService, cfg.HTTP.MaxAudioBytes, logger).RegisterRoutes(v1)
	handlers.NewProductHandler(catalogService, logger).RegisterRoutes(v1)
	handlers.NewOrderHandler(orderService, logger).RegisterRoutes(v1)
	handlers.NewReviewHandler(reviewService, logger).RegisterRoutes(v1)

	wsAdapter.RegisterRoutes(app, hub, assistantStream)

	// 13. Start Background Workers
	if err := startBackgroundWorkers(messageQueue, hub, logger); err != nil {
		logger.Fatal("Failed to subscribe background workers", zap.Error(err))
	}

	// 14. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Error("HTTP Server failed", zap.Error(err))
			stop()
		}
	}()

	// 15. Graceful Shutdown
	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging.level %q: %w", cfg.Level, err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// newCache prefers Redis and falls back to an in-process cache.
func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) ports.Cache {
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.URL, cfg.Redis.Prefix, logger)
		if err == nil {
			return redisCache
		}
		logger.Warn("Redis unavailable, using in-process cache", zap.Error(err))
	}
	return cache.NewLocalCache(cfg.Cache.SweepInterval, cfg.Cache.LocalMaxEntries, logger)
}

func newSpeech(cfg *config.Config, store ports.Cache, logger *zap.Logger) (ports.SpeechSynthesizer, ports.SpeechTranscriber) {
	breaker := speech.BreakerSettings{
		MaxRequests:  cfg.Speech.Breaker.MaxRequests,
		Interval:     cfg.Speech.Breaker.Interval,
		Timeout:      cfg.Speech.Breaker.Timeout,
		MinRequests:  cfg.Speech.Breaker.MinRequests,
		FailureRatio: cfg.Speech.Breaker.FailureRatio,
	}

	tts := gtts.New(gtts.Config{
		BaseURL:  cfg.Speech.GTTS.BaseURL,
		Language: cfg.Speech.GTTS.Language,
		Slow:     cfg.Speech.GTTS.Slow,
		Timeout:  cfg.Speech.GTTS.Timeout,
	}, logger)
	var synthesizer ports.SpeechSynthesizer = speech.NewBreakingSynthesizer(tts, breaker, logger)
	synthesizer = speech.NewCachingSynthesizer(synthesizer, store, cfg.Cache.SpeechTTL, logger)

	if !cfg.Speech.Vosk.Enabled {
		return synthesizer, nil
	}
	stt := vosk.NewTranscriber(vosk.Config{
		URL:        cfg.Speech.Vosk.URL,
		SampleRate: cfg.Speech.Vosk.SampleRate,
		ChunkSize:  cfg.Speech.Vosk.ChunkSize,
		Timeout:    cfg.Speech.Vosk.Timeout,
	}, vosk.FFmpegDecoder{Path: cfg.Speech.Vosk.FFmpegPath}, logger)
	return synthesizer, speech.NewBreakingTranscriber(stt, breaker, logger)
}

func databaseProbe(db *gorm.DB) health.Probe {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// startBackgroundWorkers relays catalog changes to storefronts and keeps an
// audit trail of order events.
func startBackgroundWorkers(mq queue.MessageQueue, hub *wsAdapter.Hub, logger *zap.Logger) error {
	logger.Info("Starting background workers")

	if err := wsAdapter.SubscribeCatalog(mq, hub); err != nil {
		return fmt.Errorf("subscribe %s: %w", queue.SubjectCatalogUpdated, err)
	}

	audit := func(msg []byte) error {
		var evt domain.OrderEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			logger.Warn("Discarding malformed order event", zap.Error(err))
			return nil
		}
		logger.Info("Order event",
			zap.String("order_id", evt.OrderID),
			zap.String("status", string(evt.Status)),
			zap.Float64("total", evt.Total),
			zap.Time("at", evt.Timestamp),
		)
		return nil
	}
	for _, subject := range []string{queue.SubjectOrdersCreated, queue.SubjectOrdersStatus} {
		if err := mq.Subscribe(subject, audit); err != nil {
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}
	}
	return nil
}
