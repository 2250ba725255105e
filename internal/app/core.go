package app

import (
	"context"
	"fmt"

	"github.com/yungbote/landcontract-backend/internal/data/aggregates"
	"github.com/yungbote/landcontract-backend/internal/data/seed"
	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
	"github.com/yungbote/landcontract-backend/internal/observability"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
	"github.com/yungbote/landcontract-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Contracts  services.ContractService
	Statistics services.StatisticsService
	Backup     services.BackupService
}

// Core is everything both the API server and the operator CLI need:
// the gateway, the contract ledger and the services over it.
type Core struct {
	Log      *logger.Logger
	Cfg      Config
	Store    *storeHandle
	Ledger   *aggregates.ContractLedger
	Services Services
	Metrics  *observability.Metrics
}

func NewCore(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (*Core, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	store, err := resolveStore(ctx, log, cfg)
	if err != nil {
		return nil, err
	}

	log.Info("Loading contract ledger...", "timezone", loc.String(), "allow_reliquidation", cfg.AllowReliquidation)
	ledger, err := aggregates.NewContractLedger(ctx, store.Store, aggregates.BaseDeps{
		Log:   log,
		Hooks: aggregates.NewObservabilityHooks(metrics),
	}, aggregates.LedgerOptions{
		Location: loc,
		Policy:   contracts.Policy{AllowReliquidation: cfg.AllowReliquidation},
		Seed: func() (contracts.AppData, error) {
			return seed.Load(seed.Options{Path: cfg.SeedPath, HashCost: cfg.SeedHashCost})
		},
	})
	if err != nil {
		_ = store.Store.Close()
		return nil, fmt.Errorf("init contract ledger: %w", err)
	}

	return &Core{
		Log:      log,
		Cfg:      cfg,
		Store:    store,
		Ledger:   ledger,
		Services: wireServices(log, cfg, store, ledger, metrics),
		Metrics:  metrics,
	}, nil
}

func wireServices(log *logger.Logger, cfg Config, store *storeHandle, ledger *aggregates.ContractLedger, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	return Services{
		Auth:       services.NewAuthService(log, ledger, store.Store, metrics, cfg.JWTSecretKey, cfg.SessionTTL),
		Contracts:  services.NewContractService(log, ledger),
		Statistics: services.NewStatisticsService(log, ledger, ledger.Location()),
		Backup:     services.NewBackupService(log, ledger),
	}
}

func (c *Core) Close() error {
	if c == nil || c.Store == nil {
		return nil
	}
	return c.Store.Store.Close()
}
