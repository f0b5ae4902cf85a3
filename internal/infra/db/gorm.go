package db

import (
	"fmt"

	"estore/internal/config"
	"estore/internal/domain/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == "sqlite" {
		return OpenSQLite(cfg.SQLitePath)
	}

	// DATABASE_URL があれば最優先で使う
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
		)
	}

	return gorm.Open(postgres.Open(dsn), gormConfig())
}

// ローカル開発・テスト用。FKを有効にしてコネクションは1本にする
// （:memory: はコネクションごとに別DBになるため）。
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)"
	gdb, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return gdb, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		// 一意制約違反を gorm.ErrDuplicatedKey に変換させる
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
}

// テーブル作成（起動時）
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	)
}
