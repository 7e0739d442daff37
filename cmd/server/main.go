package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-management-api/internal/auth"
	"github.com/yukikurage/event-management-api/internal/authz"
	"github.com/yukikurage/event-management-api/internal/config"
	"github.com/yukikurage/event-management-api/internal/database"
	"github.com/yukikurage/event-management-api/internal/handlers"
	"github.com/yukikurage/event-management-api/internal/logging"
	"github.com/yukikurage/event-management-api/internal/middleware"
	"github.com/yukikurage/event-management-api/internal/notify"
	"github.com/yukikurage/event-management-api/internal/render"
	"github.com/yukikurage/event-management-api/internal/repository"
	"github.com/yukikurage/event-management-api/internal/router"
	"github.com/yukikurage/event-management-api/internal/services"
	"github.com/yukikurage/event-management-api/internal/storage"
	"github.com/yukikurage/event-management-api/internal/supervisor"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: !cfg.IsProduction(),
	})

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	files, err := storage.NewLocalStore(cfg.Storage.UploadsDir, "/uploads")
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to prepare uploads directory")
	}
	renderer, err := render.NewPNGRenderer(cfg.Storage.CertificatesDir, "/static/certificados")
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to prepare certificate renderer")
	}
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create token manager")
	}
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load authorization policy")
	}

	tree := supervisor.NewTree(supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout})

	// Notifications go through RabbitMQ when enabled; otherwise they are dropped.
	var notifier notify.Notifier = notify.NopNotifier{}
	var breaker handlers.CircuitState
	if cfg.RabbitMQ.Enabled {
		rabbit := notify.NewRabbitClient(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue, cfg.RabbitMQ.DialTimeout)
		if err := rabbit.Connect(); err != nil {
			logging.Warn().Err(err).Msg("rabbitmq unavailable at startup, publisher will retry")
		}
		defer rabbit.Close()

		publisher := notify.NewPublisher(rabbit, notify.DefaultPublisherConfig())
		notifier = publisher
		breaker = publisher
		tree.AddBackgroundService(notify.NewWorker(rabbit, notify.NewMailer(cfg.SMTP)))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	fileRepo := repository.NewFileRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)

	limits := middleware.DefaultRateLimits()
	for _, rl := range limits.All() {
		tree.AddBackgroundService(rl)
	}

	r, err := router.New(router.Deps{
		Config:              cfg,
		DB:                  db,
		Permissions:         enforcer,
		Limits:              limits,
		NotificationBreaker: breaker,
		AuthService:         services.NewAuthService(userRepo, tokens),
		UserService:         services.NewUserService(userRepo),
		EventService:        services.NewEventService(eventRepo, fileRepo, files),
		ActivityService:     services.NewActivityService(activityRepo, eventRepo),
		FileService:         services.NewFileService(fileRepo, eventRepo, files),
		RegistrationService: services.NewRegistrationService(registrationRepo, eventRepo, notifier),
		CertificateService: services.NewCertificateService(
			certificateRepo, registrationRepo, eventRepo, renderer, cfg.Certificates.RenderMode, notifier,
		),
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build router")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("server starting")
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("supervisor stopped unexpectedly")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logging.Warn().Int("services", len(report)).Msg("some services did not stop in time")
	}
	logging.Info().Msg("server stopped")
}
