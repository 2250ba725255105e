package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/landcontract-backend/internal/data/kv"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

func TestResolveStoreInvalidBackend(t *testing.T) {
	_, err := resolveStore(context.Background(), logger.Nop(), Config{StoreBackend: "etcd"})
	var got *StoreBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected StoreBootstrapError, got=%T", err)
	}
	if got.Code != StoreBootstrapErrorInvalidBackend {
		t.Fatalf("code: want=%q got=%q", StoreBootstrapErrorInvalidBackend, got.Code)
	}
}

func TestResolveStoreRedisMissingAddress(t *testing.T) {
	_, err := resolveStore(context.Background(), logger.Nop(), Config{StoreBackend: BackendRedis})
	if code := storeBootstrapErrorCode(err); code != StoreBootstrapErrorMissingAddress {
		t.Fatalf("code: want=%q got=%q", StoreBootstrapErrorMissingAddress, code)
	}
}

func TestResolveStoreRedisConnectFailed(t *testing.T) {
	orig := dialRedis
	t.Cleanup(func() { dialRedis = orig })
	dialRedis = func(context.Context, string, string, int) (*redis.Client, error) {
		return nil, errors.New("dial tcp: connection refused")
	}
	_, err := resolveStore(context.Background(), logger.Nop(), Config{StoreBackend: BackendRedis, RedisAddr: "redis:6379"})
	if code := storeBootstrapErrorCode(err); code != StoreBootstrapErrorConnectFailed {
		t.Fatalf("code: want=%q got=%q", StoreBootstrapErrorConnectFailed, code)
	}
}

func TestResolveStoreMemoryAndSQLite(t *testing.T) {
	h, err := resolveStore(context.Background(), logger.Nop(), Config{StoreBackend: BackendMemory})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := h.Store.(*kv.MemoryStore); !ok {
		t.Fatalf("memory: got %T", h.Store)
	}

	path := filepath.Join(t.TempDir(), "store", "lc.db")
	h, err = resolveStore(context.Background(), logger.Nop(), Config{StoreBackend: BackendSQLite, SQLitePath: path})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer h.Store.Close()
	if h.DB == nil || h.Gorm == nil {
		t.Fatalf("sqlite: gorm handles missing")
	}
	ctx := context.Background()
	if err := h.Store.Put(ctx, kv.KeyAppData, []byte(`{"users":[]}`), 0); err != nil {
		t.Fatalf("sqlite put: %v", err)
	}
	if _, ok, err := h.Store.Get(ctx, kv.KeyAppData); err != nil || !ok {
		t.Fatalf("sqlite get: ok=%v err=%v", ok, err)
	}
}
