package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteConfig 本地开发和测试用的 SQLite 配置
type SQLiteConfig struct {
	ServiceName string
	Path        string // 文件路径，":memory:" 为内存库
	LogLevel    string
}

// InitSQLite 初始化 SQLite 连接
func InitSQLite(config *SQLiteConfig) (*gorm.DB, error) {
	if config == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	if config.Path == "" {
		config.Path = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(config.Path), &gorm.Config{
		Logger: getLogger(config.ServiceName, config.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("打开 SQLite 失败: %w", err)
	}

	// SQLite 只允许单写连接，内存库多连接时各自是独立的库
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库实例失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	log.Printf("[%s] SQLite 已打开: %s", serviceName(config.ServiceName), config.Path)
	return db, nil
}
