// Package router assembles the gin engine and every route of the API.
package router

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/event-management-api/internal/authz"
	"github.com/yukikurage/event-management-api/internal/config"
	"github.com/yukikurage/event-management-api/internal/handlers"
	"github.com/yukikurage/event-management-api/internal/middleware"
	"github.com/yukikurage/event-management-api/internal/services"
	"github.com/yukikurage/event-management-api/internal/validation"
	"gorm.io/gorm"
)

// Deps holds everything the routes are built from.
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Permissions middleware.PermissionChecker
	Limits      *middleware.RateLimits

	// NotificationBreaker is nil when notifications are disabled.
	NotificationBreaker handlers.CircuitState

	AuthService         *services.AuthService
	UserService         *services.UserService
	EventService        *services.EventService
	ActivityService     *services.ActivityService
	FileService         *services.FileService
	RegistrationService *services.RegistrationService
	CertificateService  *services.CertificateService
}

// New builds the engine. Rate limiters are applied only when enabled in config.
func New(deps Deps) (*gin.Engine, error) {
	if err := validation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	cfg := deps.Config
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	limit := func(rl *middleware.RateLimiter) gin.HandlerFunc {
		if !cfg.RateLimit.Enabled || rl == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return rl.Middleware()
	}
	if deps.Limits == nil {
		deps.Limits = &middleware.RateLimits{}
	}
	r.Use(limit(deps.Limits.General))

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	userHandler := handlers.NewUserHandler(deps.UserService)
	eventHandler := handlers.NewEventHandler(deps.EventService)
	activityHandler := handlers.NewActivityHandler(deps.ActivityService)
	fileHandler := handlers.NewFileHandler(deps.FileService)
	registrationHandler := handlers.NewRegistrationHandler(deps.RegistrationService)
	certificateHandler := handlers.NewCertificateHandler(deps.CertificateService)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.NotificationBreaker)

	requireAuth := middleware.RequireAuth(deps.AuthService)
	can := func(obj, act string) gin.HandlerFunc {
		return middleware.RequirePermission(deps.Permissions, obj, act)
	}

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", cfg.Storage.UploadsDir)
	r.Static("/static/certificados", cfg.Storage.CertificatesDir)

	// Auth
	r.POST("/auth", limit(deps.Limits.Login), authHandler.Login)
	r.POST("/auth/register", authHandler.Register)
	r.GET("/auth/profile", requireAuth, authHandler.GetCurrentUser)

	// Users
	users := r.Group("/usuarios")
	{
		users.POST("", authHandler.Register)
		users.GET("/profile", requireAuth, userHandler.GetProfile)
		users.PUT("/:id", requireAuth, userHandler.UpdateProfile)
		users.GET("/matricula/:matricula", requireAuth, can(authz.ObjUsers, authz.ActLookup), userHandler.GetByRegistrationNumber)
	}

	// Public event browsing
	events := r.Group("/eventos")
	{
		events.GET("", eventHandler.ListEvents)
		events.GET("/:id", eventHandler.GetEvent)
		events.GET("/:id/atividades", activityHandler.ListByEvent)
		events.GET("/:id/arquivos", fileHandler.ListByEvent)
		events.POST("/:id/arquivos/upload", requireAuth, can(authz.ObjFiles, authz.ActWrite), limit(deps.Limits.Upload), fileHandler.Upload)
		events.DELETE("/:id/arquivos/:fileId", requireAuth, can(authz.ObjFiles, authz.ActWrite), fileHandler.DeleteFile)
	}
	r.GET("/atividades/:id", activityHandler.GetActivity)
	r.GET("/arquivos/:id", fileHandler.GetFile)
	r.GET("/arquivos/:id/download", fileHandler.Download)

	// Organizer area
	organizer := r.Group("/organizador", requireAuth)
	{
		organizer.GET("", can(authz.ObjEvents, authz.ActWrite), eventHandler.ListOrganizerEvents)
		organizer.POST("/eventos/create", can(authz.ObjEvents, authz.ActWrite), limit(deps.Limits.Creation), eventHandler.CreateEvent)
		organizer.PUT("/eventos/:id", can(authz.ObjEvents, authz.ActWrite), eventHandler.UpdateEvent)
		organizer.DELETE("/eventos/:id", can(authz.ObjEvents, authz.ActWrite), eventHandler.DeleteEvent)
		organizer.PATCH("/eventos/:id/status", can(authz.ObjEvents, authz.ActWrite), eventHandler.UpdateEventStatus)
		organizer.POST("/eventos/:id/create/atividades", can(authz.ObjActivities, authz.ActWrite), activityHandler.CreateActivity)
		organizer.GET("/eventos/:id/inscricoes", can(authz.ObjRegistrations, authz.ActManage), registrationHandler.ListByEvent)
		organizer.PATCH("/inscricoes/:id/status", can(authz.ObjRegistrations, authz.ActManage), registrationHandler.UpdateStatus)
		organizer.PUT("/atividades/:id", can(authz.ObjActivities, authz.ActWrite), activityHandler.UpdateActivity)
		organizer.DELETE("/atividades/:id", can(authz.ObjActivities, authz.ActWrite), activityHandler.DeleteActivity)
	}

	// Participant area
	participant := r.Group("/participante", requireAuth, can(authz.ObjRegistrations, authz.ActSelf))
	{
		participant.GET("", registrationHandler.MyEvents)
		participant.GET("/eventos", registrationHandler.MyEvents)
		participant.POST("/eventos/:id/inscricao", registrationHandler.Register)
		participant.DELETE("/eventos/:id/desinscricao", registrationHandler.Cancel)
	}

	// Certificates
	certificates := r.Group("/certificados")
	{
		certificates.GET("/verificar/:codigo", certificateHandler.Verify)
		certificates.GET("/meus", requireAuth, certificateHandler.Mine)
		certificates.POST("/organizador", requireAuth, can(authz.ObjCertificates, authz.ActIssue), certificateHandler.GenerateForEvent)
		certificates.POST("/organizador/participante", requireAuth, can(authz.ObjCertificates, authz.ActIssue), certificateHandler.GenerateForParticipant)
		certificates.GET("/evento/:id", requireAuth, can(authz.ObjCertificates, authz.ActIssue), certificateHandler.ListByEvent)
		certificates.GET("/:id", requireAuth, certificateHandler.GetCertificate)
		certificates.GET("/:id/imagem", requireAuth, certificateHandler.Image)
		certificates.DELETE("/:id", requireAuth, can(authz.ObjCertificates, authz.ActIssue), certificateHandler.DeleteCertificate)
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
