package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/landcontract-backend/internal/domain/user"
	httpH "github.com/yungbote/landcontract-backend/internal/http/handlers"
	httpMW "github.com/yungbote/landcontract-backend/internal/http/middleware"
	"github.com/yungbote/landcontract-backend/internal/observability"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	AllowedOrigins []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	WardHandler       *httpH.WardHandler
	ContractHandler   *httpH.ContractHandler
	StatisticsHandler *httpH.StatisticsHandler
	BackupHandler     *httpH.BackupHandler

	HealthHandler  *httpH.HealthHandler
	MetricsHandler *httpH.MetricsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		name := cfg.ServiceName
		if name == "" {
			name = "landcontract-api"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.RequestID())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", cfg.MetricsHandler.Serve)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
			protected.GET("/me", cfg.AuthHandler.Me)
		}

		// Wards
		if cfg.WardHandler != nil {
			protected.GET("/wards", cfg.WardHandler.List)
			protected.GET("/wards/:id", cfg.WardHandler.Get)
		}

		// Contracts
		if cfg.ContractHandler != nil {
			protected.GET("/contracts", cfg.ContractHandler.List)
			protected.POST("/contracts", cfg.ContractHandler.Create)
			protected.GET("/contracts/:id", cfg.ContractHandler.Get)
			protected.GET("/contracts/:id/liquidations", cfg.ContractHandler.Liquidations)
		}
	}

	admin := protected.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireRole(user.RoleAdmin))
		}

		if cfg.ContractHandler != nil {
			admin.PUT("/contracts/:id", cfg.ContractHandler.Update)
			admin.POST("/contracts/:id/cancel", cfg.ContractHandler.Cancel)
			admin.POST("/contracts/:id/liquidations", cfg.ContractHandler.Liquidate)
		}

		// Statistics
		if cfg.StatisticsHandler != nil {
			admin.GET("/statistics", cfg.StatisticsHandler.Get)
		}

		// Backup
		if cfg.BackupHandler != nil {
			admin.GET("/backup", cfg.BackupHandler.Backup)
			admin.POST("/restore", cfg.BackupHandler.Restore)
		}
	}

	return r
}
