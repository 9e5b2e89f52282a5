package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightclaim/backend/internal/api/handler"
	"flightclaim/backend/internal/assistant"
	"flightclaim/backend/internal/chathub"
	"flightclaim/backend/internal/claims"
	"flightclaim/backend/internal/config"
	"flightclaim/backend/internal/flights"
	"flightclaim/backend/internal/localization"
	"flightclaim/backend/internal/logger"
	"flightclaim/backend/internal/metrics"
	"flightclaim/backend/internal/notify"
	"flightclaim/backend/internal/search"
	"flightclaim/backend/internal/storage"
	"flightclaim/backend/internal/telegram"
	"flightclaim/backend/internal/uploads"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func setupDependencies(ctx context.Context, cfg *config.Config, log logger.Logger) (*gorm.DB, *redis.Client) {
	db, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect PostgreSQL", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", "error", err)
	}
	if err := storage.Migrate(sqlDB, "up", 0); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}
	if err := storage.AutoMigrate(db); err != nil {
		log.Fatal("failed to run automigrate", "error", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect Redis", "addr", cfg.RedisAddr, "error", err)
	}

	log.Info("database and redis connections established, migrations complete")
	return db, rdb
}

func newMailer(ctx context.Context, cfg *config.Config, log logger.Logger) notify.Mailer {
	if cfg.GmailClientID == "" || cfg.GmailRefreshToken == "" {
		log.Warn("gmail not configured, emails are only logged")
		return notify.NewLogMailer(log)
	}
	m, err := notify.NewGmailMailer(ctx, cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, cfg.MailFrom)
	if err != nil {
		log.Fatal("failed to create gmail client", "error", err)
	}
	return m
}

func newAssistant(ctx context.Context, cfg *config.Config, store assistant.Store, log logger.Logger, m *metrics.Metrics) *assistant.Service {
	embedder, err := assistant.NewEmbedder(ctx, cfg)
	if err != nil {
		log.Warn("embeddings disabled, chat answers without knowledge base", "error", err)
		embedder = nil
	}
	llm, err := assistant.NewLLM(ctx, cfg)
	if err != nil {
		log.Warn("llm disabled, chat will return errors", "error", err)
		llm = nil
	}
	return assistant.NewService(store, embedder, llm, log, m)
}

func newUploads(ctx context.Context, cfg *config.Config, log logger.Logger) *uploads.Service {
	if cfg.S3Bucket == "" {
		log.Warn("S3_BUCKET not set, document uploads disabled")
		return nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatal("failed to load aws config", "error", err)
	}
	presigner := s3.NewPresignClient(s3.NewFromConfig(awsCfg))
	return uploads.NewService(presigner, cfg.S3Bucket, cfg.PresignTTL, uuid.NewString)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("invalid configuration", "error", err)
	}
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("starting flight claim backend", "env", cfg.AppEnv)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Infrastructure
	db, rdb := setupDependencies(ctx, cfg, log)
	defer rdb.Close()
	store := storage.NewStorageService(db, rdb)
	m := metrics.NewMetrics("flightclaim", prometheus.DefaultRegisterer)

	// 2. Notifications
	loc, err := localization.NewDefault()
	if err != nil {
		log.Fatal("failed to load locales", "error", err)
	}
	emails, err := notify.NewTemplates(loc)
	if err != nil {
		log.Fatal("failed to parse email templates", "error", err)
	}
	tg, err := telegram.NewBotNotifier(cfg.TelegramBotToken, cfg.TelegramAdminChatID, log)
	if err != nil {
		log.Fatal("failed to start telegram bot", "error", err)
	}

	// 3. Services
	claimsSvc := claims.NewService(store, emails, newMailer(ctx, cfg, log), tg, m, log)
	assistantSvc := newAssistant(ctx, cfg, store, log, m)

	flightClient := flights.NewClient(cfg.RapidAPIKey, cfg.RapidAPIHost, flights.WithLogger(log), flights.WithMetrics(m))
	flightSearch := flights.NewCached(flightClient, store, cfg.FlightCacheTTL, log)

	airports, err := search.NewAirportIndex(store, log)
	if err != nil {
		log.Fatal("failed to create airport index", "error", err)
	}
	defer airports.Close()
	if err := airports.Build(ctx); err != nil {
		log.Warn("airport index not built, searching the database", "error", err)
	}

	hub := chathub.NewManagerService(assistantSvc, log)
	go hub.Run(ctx)

	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn("JWT_SECRET not set, using a random secret; admin tokens will not survive a restart")
	}

	// 4. HTTP
	h := handler.NewHandler(handler.Dependencies{
		Storage:       store,
		Claims:        claimsSvc,
		Assistant:     assistantSvc,
		Flights:       flightSearch,
		Airports:      airports,
		Uploads:       newUploads(ctx, cfg, log),
		Hub:           hub,
		Log:           log,
		Metrics:       m,
		JWTSecret:     []byte(secret),
		JWTTTL:        cfg.JWTTTL,
		CORSOrigin:    cfg.CORSOrigin,
		RateLimit:     cfg.RateLimitPerMinute,
		RateLimitSpan: config.RateLimitWindow,
	})

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        h.Router(),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}
	select {
	case <-hub.Done():
	case <-shutdownCtx.Done():
		log.Warn("chat hub did not stop in time")
	}
	log.Info("stopped")
}
