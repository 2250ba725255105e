package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/landcontract-backend/internal/data/db"
	"github.com/yungbote/landcontract-backend/internal/data/kv"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

var dialRedis = kv.DialRedis

type StoreBootstrapErrorCode string

const (
	StoreBootstrapErrorInvalidBackend StoreBootstrapErrorCode = "invalid_backend"
	StoreBootstrapErrorMissingAddress StoreBootstrapErrorCode = "missing_address"
	StoreBootstrapErrorConnectFailed  StoreBootstrapErrorCode = "connect_failed"
	StoreBootstrapErrorMigrateFailed  StoreBootstrapErrorCode = "migrate_failed"
)

type StoreBootstrapError struct {
	Code    StoreBootstrapErrorCode
	Backend string
	Cause   error
}

func (e *StoreBootstrapError) Error() string {
	if e == nil {
		return "store bootstrap failed"
	}
	return fmt.Sprintf("store bootstrap failed (code=%s backend=%q): %v", e.Code, e.Backend, e.Cause)
}

func (e *StoreBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// storeHandle is the selected gateway plus the client behind it, for
// collectors and expiry sweeps.
type storeHandle struct {
	Backend string
	Store   kv.Store
	DB      *gorm.DB
	Redis   *redis.Client
	Gorm    *kv.GormStore
}

func resolveStore(ctx context.Context, log *logger.Logger, cfg Config) (*storeHandle, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	if backend == "" {
		backend = BackendSQLite
	}
	log.Info("Selecting persistence gateway", "backend", backend)

	fail := func(code StoreBootstrapErrorCode, err error) (*storeHandle, error) {
		bootErr := &StoreBootstrapError{Code: code, Backend: backend, Cause: err}
		log.Error("Persistence gateway bootstrap failed", "backend", backend, "error_code", code, "error", err)
		return nil, bootErr
	}

	switch backend {
	case BackendMemory:
		return &storeHandle{Backend: backend, Store: kv.NewMemoryStore()}, nil

	case BackendRedis:
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return fail(StoreBootstrapErrorMissingAddress, errors.New("REDIS_ADDR is required for the redis backend"))
		}
		client, err := dialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fail(StoreBootstrapErrorConnectFailed, err)
		}
		return &storeHandle{Backend: backend, Store: kv.NewRedisStore(client, cfg.RedisPrefix), Redis: client}, nil

	case BackendSQLite, BackendPostgres:
		var gdb *gorm.DB
		if backend == BackendSQLite {
			svc, err := db.NewSQLiteService(cfg.SQLitePath, log)
			if err != nil {
				return fail(StoreBootstrapErrorConnectFailed, err)
			}
			gdb = svc.DB()
		} else {
			svc, err := db.NewPostgresService(cfg.Postgres, log)
			if err != nil {
				return fail(StoreBootstrapErrorConnectFailed, err)
			}
			gdb = svc.DB()
		}
		if err := db.AutoMigrateAll(gdb); err != nil {
			return fail(StoreBootstrapErrorMigrateFailed, err)
		}
		gs := kv.NewGormStore(gdb)
		return &storeHandle{Backend: backend, Store: gs, DB: gdb, Gorm: gs}, nil

	default:
		return fail(StoreBootstrapErrorInvalidBackend, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.StoreBackend))
	}
}

func storeBootstrapErrorCode(err error) StoreBootstrapErrorCode {
	var bootstrapErr *StoreBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return StoreBootstrapErrorConnectFailed
}
