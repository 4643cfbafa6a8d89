package mysql

import (
	"time"

	"anonworld/internal/model"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB 连接 MySQL 并设置连接池
func InitDB(dsn string) error {
	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	return nil
}

// AutoMigrate 自动建表（开发阶段使用，线上表结构由迁移脚本维护）
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Token{},
		&model.FarcasterAccount{},
		&model.TwitterAccount{},
		&model.Community{},
	)
}
