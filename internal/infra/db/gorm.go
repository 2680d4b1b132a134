package db

import (
	"delivery/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// 23505 などを gorm.ErrDuplicatedKey にする
		TranslateError: true,
	}
	return gorm.Open(postgres.Open(dsn), cfg)
}

// Migrate はテーブルを作成・更新する。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Restaurant{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	)
}
