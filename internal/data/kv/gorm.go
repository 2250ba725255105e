package kv

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is the kv_entries row shared by the SQLite and Postgres backends.
type Entry struct {
	Key       string         `gorm:"column:key;primaryKey;size:255" json:"key"`
	Value     datatypes.JSON `gorm:"column:value;not null" json:"value"`
	ExpiresAt *time.Time     `gorm:"column:expires_at;index" json:"expires_at,omitempty"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Entry) TableName() string { return "kv_entries" }

// GormStore is the SQL backend. The table must exist; see db.AutoMigrateAll.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e Entry
	err := s.db.WithContext(ctx).
		Where("key = ?", key).
		Where("expires_at IS NULL OR expires_at > ?", s.now()).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(e.Value), true, nil
}

func (s *GormStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := checkPut(key, value); err != nil {
		return err
	}
	now := s.now()
	e := Entry{
		Key:       key,
		Value:     datatypes.JSON(append([]byte(nil), value...)),
		ExpiresAt: expiry(now, ttl),
		UpdatedAt: now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&e).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&Entry{}).Error
}

// PurgeExpired removes rows whose TTL has passed.
func (s *GormStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).
		Delete(&Entry{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
