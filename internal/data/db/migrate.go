package db

import (
	"github.com/yungbote/landcontract-backend/internal/data/kv"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&kv.Entry{},
	)
}
