package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	lchttp "github.com/yungbote/landcontract-backend/internal/http"
	httpH "github.com/yungbote/landcontract-backend/internal/http/handlers"
	httpMW "github.com/yungbote/landcontract-backend/internal/http/middleware"
	"github.com/yungbote/landcontract-backend/internal/observability"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

type App struct {
	Log     *logger.Logger
	Cfg     Config
	Core    *Core
	Server  *lchttp.Server
	Metrics *observability.Metrics

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log, cfg.MetricsEnabled)

	core, err := NewCore(ctx, log, cfg, metrics)
	if err != nil {
		_ = otelShutdown(ctx)
		log.Sync()
		return nil, err
	}

	handlers := wireHandlers(log, core, metrics)
	server := lchttp.NewServer(":"+cfg.Port, lchttp.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       cfg.Otel.ServiceName,
		TracingEnabled:    cfg.Otel.Enabled,
		AllowedOrigins:    cfg.AllowedOrigins,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, core.Services.Auth),
		WardHandler:       handlers.Ward,
		ContractHandler:   handlers.Contract,
		StatisticsHandler: handlers.Statistics,
		BackupHandler:     handlers.Backup,
		HealthHandler:     handlers.Health,
		MetricsHandler:    handlers.Metrics,
	})

	return &App{
		Log:          log,
		Cfg:          cfg,
		Core:         core,
		Server:       server,
		Metrics:      metrics,
		otelShutdown: otelShutdown,
	}, nil
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Metrics    *httpH.MetricsHandler
	Auth       *httpH.AuthHandler
	Ward       *httpH.WardHandler
	Contract   *httpH.ContractHandler
	Statistics *httpH.StatisticsHandler
	Backup     *httpH.BackupHandler
}

func wireHandlers(log *logger.Logger, core *Core, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	loc := core.Ledger.Location()
	return Handlers{
		Health:     httpH.NewHealthHandler(core.Store.Backend, core.Ledger),
		Metrics:    httpH.NewMetricsHandler(metrics),
		Auth:       httpH.NewAuthHandler(core.Services.Auth),
		Ward:       httpH.NewWardHandler(core.Services.Contracts),
		Contract:   httpH.NewContractHandler(core.Services.Contracts, loc),
		Statistics: httpH.NewStatisticsHandler(core.Services.Statistics, loc),
		Backup:     httpH.NewBackupHandler(core.Services.Backup),
	}
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	a.Metrics.StartDBCollector(gctx, a.Log, a.Core.Store.DB)
	a.Metrics.StartRedisCollector(gctx, a.Log, a.Core.Store.Redis)

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "port", a.Cfg.Port, "backend", a.Core.Store.Backend)
		return a.Server.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		defer cancel()
		a.Log.Info("HTTP server shutting down")
		return a.Server.Shutdown(shutdownCtx)
	})
	if a.Core.Store.Gorm != nil && a.Cfg.PurgeInterval > 0 {
		g.Go(func() error {
			a.purgeExpiredSessions(gctx)
			return nil
		})
	}
	return g.Wait()
}

// purgeExpiredSessions drops expired session rows from the SQL gateway.
// Redis expires keys on its own.
func (a *App) purgeExpiredSessions(ctx context.Context) {
	ticker := time.NewTicker(a.Cfg.PurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.Core.Store.Gorm.PurgeExpired(ctx)
			if err != nil {
				a.Log.Warn("session purge failed", "error", err)
				continue
			}
			if n > 0 {
				a.Log.Debug("purged expired sessions", "count", n)
			}
		}
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Core != nil {
		if err := a.Core.Close(); err != nil {
			a.Log.Warn("closing store failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.otelShutdown(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
