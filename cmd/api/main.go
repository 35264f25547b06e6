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

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/provisionexpertax/taxportal/internal/auth"
	"github.com/provisionexpertax/taxportal/internal/calendly"
	"github.com/provisionexpertax/taxportal/internal/config"
	"github.com/provisionexpertax/taxportal/internal/database"
	"github.com/provisionexpertax/taxportal/internal/filestore"
	"github.com/provisionexpertax/taxportal/internal/handler"
	"github.com/provisionexpertax/taxportal/internal/jobs"
	"github.com/provisionexpertax/taxportal/internal/logger"
	middlewarepkg "github.com/provisionexpertax/taxportal/internal/middleware"
	"github.com/provisionexpertax/taxportal/internal/repository"
	"github.com/provisionexpertax/taxportal/internal/router"
	"github.com/provisionexpertax/taxportal/internal/service"
	"github.com/provisionexpertax/taxportal/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var pool *pgxpool.Pool
	var store repository.Storage
	if cfg.DatabaseURL != "" {
		pool, err = database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
		store = repository.NewPGXStore(pool)
	} else {
		log.Warn().Msg("DATABASE_URL not set, using in-memory storage; data is lost on restart")
		store = repository.NewMemoryStore()
	}

	sessionStore, closeSessions, err := openSessionStore(ctx, cfg, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open session store")
	}
	defer closeSessions()

	files, err := openFileStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open file store")
	}

	sessions := session.NewManager(sessionStore, session.Options{TTL: cfg.SessionTTL, Secure: cfg.CookieSecure})
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	calendlyClient := calendly.NewClient(&http.Client{Timeout: 15 * time.Second}, cfg.Calendly.BaseURL, cfg.Calendly.APIToken)
	if !calendlyClient.Configured() {
		log.Info().Msg("CALENDLY_API_TOKEN not set, calendly endpoints disabled")
	}
	notifier := service.NewLogNotifier(log.Logger)

	authService := service.NewAuthService(store, sessions, jwtManager)
	agentService := service.NewAgentService(store)

	if _, err := agentService.SeedDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed agents")
	}
	if cfg.Admin.Enabled() {
		created, err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin user")
		}
		if created {
			log.Info().Str("username", cfg.Admin.Username).Msg("created admin user")
		}
	}

	scheduler := jobs.NewScheduler()
	if err := scheduler.RegisterSessionPruning(cfg.SessionPruneSchedule, sessions); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule session pruning")
	}
	scheduler.Start()

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService, sessions),
		Contacts:     handler.NewContactsHandler(service.NewContactService(store, notifier)),
		Agents:       handler.NewAgentsHandler(agentService),
		Appointments: handler.NewAppointmentsHandler(service.NewAppointmentService(store, notifier)),
		Calendar:     handler.NewCalendarHandler(service.NewCalendarService(store, calendlyClient)),
		Documents:    handler.NewDocumentsHandler(service.NewDocumentService(store, files)),
		Blog:         handler.NewBlogHandler(service.NewBlogService(store)),
		Testimonials: handler.NewTestimonialsHandler(service.NewTestimonialService(store, notifier)),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())
	e.Use(middlewarepkg.Authenticate(sessions, jwtManager))

	router.Register(e, cfg, handlers)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	scheduler.Shutdown(shutdownCtx)
}

func openSessionStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (session.Store, func(), error) {
	noop := func() {}
	switch cfg.SessionStore {
	case "postgres":
		if pool == nil {
			return nil, noop, errors.New("postgres session store requires DATABASE_URL")
		}
		return session.NewPGXStore(pool), noop, nil
	case "redis":
		client, err := session.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, noop, err
		}
		return session.NewRedisStore(client), func() { _ = client.Close() }, nil
	case "memory":
		return session.NewMemoryStore(), noop, nil
	case "auto", "":
		if pool != nil {
			return session.NewPGXStore(pool), noop, nil
		}
		return session.NewMemoryStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

func openFileStore(ctx context.Context, cfg *config.Config) (filestore.Store, error) {
	switch cfg.FileStore {
	case "minio":
		return filestore.NewMinIOStore(ctx, filestore.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
	case "disk", "":
		return filestore.NewDiskStore(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown file store %q", cfg.FileStore)
	}
}
