package kv

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&Entry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewGormStore(db)
}

func TestGormStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	if err := s.Put(ctx, KeyAppData, []byte(`{"v":1}`), 0); err != nil {
		t.Fatalf("Put #1: %v", err)
	}
	if err := s.Put(ctx, KeyAppData, []byte(`{"v":2}`), 0); err != nil {
		t.Fatalf("Put #2: %v", err)
	}
	raw, ok, err := s.Get(ctx, KeyAppData)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(raw) != `{"v":2}` {
		t.Fatalf("Get: want={\"v\":2} got=%s", raw)
	}
	var count int64
	s.db.Model(&Entry{}).Count(&count)
	if count != 1 {
		t.Fatalf("rows: want=1 got=%d", count)
	}
}

func TestGormStoreExpiryAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	now := time.Now()
	s.now = func() time.Time { return now }
	if err := s.Put(ctx, SessionKey("s1"), []byte(`{"id":1}`), time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, err := s.Get(ctx, SessionKey("s1")); err != nil || !ok {
		t.Fatalf("live Get: ok=%v err=%v", ok, err)
	}
	now = now.Add(time.Hour)
	if _, ok, err := s.Get(ctx, SessionKey("s1")); err != nil || ok {
		t.Fatalf("expired Get: ok=%v err=%v", ok, err)
	}
	n, err := s.PurgeExpired(ctx)
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpired: n=%d err=%v", n, err)
	}
	if err := s.Put(ctx, KeyCurrentUser, []byte(`{}`), 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, KeyCurrentUser); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, KeyCurrentUser); ok {
		t.Fatalf("expected deleted key to be missing")
	}
}
