// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"soko-service/internal/config"
	"soko-service/internal/db"
	authHandler "soko-service/internal/handlers/auth"
	"soko-service/internal/middleware"
	"soko-service/internal/pkg/autherr"
	"soko-service/internal/pkg/session"
	"soko-service/internal/pkg/token"
	"soko-service/internal/repository/postgres"
	authUsecase "soko-service/internal/service/auth"
	"soko-service/internal/service/notification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	writer *session.Writer
	http   *http.Server
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- Exception registry -----
	registry, err := autherr.NewRegistry(autherr.DefaultCatalog(), autherr.DefaultHandlers()...)
	if err != nil {
		return fmt.Errorf("failed to build exception registry: %w", err)
	}

	// ----- Token codecs -----
	codecs, err := token.NewDefaultResolver(s.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to build token codecs: %w", err)
	}

	// ----- Session store & writer -----
	sessionStore := session.NewStore(redisClient, s.cfg.SessionTTL)
	sessionWriter := session.NewWriter(sessionStore, s.cfg.SessionWriters, logger)
	s.writer = sessionWriter

	// ----- Repository -----
	accountRepo := postgres.NewAccountRepository(pool)

	// ----- Notification -----
	notifier := notification.NewSMTPSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMSGateway,
	)

	// ----- Providers -----
	providers := authUsecase.NewProviderResolver(
		authUsecase.NewLoginProvider(accountRepo),
		authUsecase.NewSessionProvider(sessionStore, sessionWriter, s.cfg.SessionRenewAfter),
		authUsecase.NewPhoneMatchProvider(accountRepo),
	)

	// ----- Services -----
	authService := authUsecase.NewAuthService(
		providers,
		codecs,
		sessionStore,
		sessionWriter,
		accountRepo,
		notifier,
		logger,
	)

	// ----- Handlers & middleware -----
	authHandlerInst := authHandler.NewAuthHandler(authService, registry, logger)
	authMiddleware := middleware.NewAuthMiddleware(authService, registry, logger)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger, registry),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	SetupRouter(s.engine, &Handlers{
		AuthHandler:    authHandlerInst,
		AuthMiddleware: authMiddleware,
	})

	// ----- Start HTTP -----
	s.http = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones, then drains
// the session writer queues. Order matters: a refresh rotating mid-shutdown
// must still find the writer running.
func (s *Server) Shutdown() {
	if s.http != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.http.Shutdown(ctx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}
	if s.writer != nil {
		s.writer.Close()
	}
}
