package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresConfig PostgreSQL 配置
type PostgresConfig struct {
	ServiceName     string        // 服务名称，用于日志标识
	DSN             string        // 完整连接串，设置后忽略下面的连接字段
	Username        string        // 数据库用户名
	Password        string        // 数据库密码
	Host            string        // 数据库地址
	Port            int           // 数据库端口
	Database        string        // 数据库名称
	SSLMode         bool          // 是否启用 SSL
	LogLevel        string        // 日志级别: silent, error, warn, info
	MaxIdleConns    int           // 最大空闲连接数
	MaxOpenConns    int           // 最大打开连接数
	ConnMaxLifetime time.Duration // 连接最大生命周期
}

// InitPostgres 初始化 PostgreSQL 连接并确认可用
func InitPostgres(config *PostgresConfig) (*gorm.DB, error) {
	if config == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	setDefaults(config)

	db, err := gorm.Open(postgres.Open(buildDSN(config)), &gorm.Config{
		Logger: getLogger(config.ServiceName, config.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库实例失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	log.Printf("[%s] PostgreSQL 连接成功 %s/%s", serviceName(config.ServiceName), config.Host, config.Database)
	return db, nil
}

// setDefaults 设置默认值，关联表读写都很轻，连接池保持较小
func setDefaults(c *PostgresConfig) {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 2
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 10
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 30 * time.Minute
	}
}

// buildDSN 构建连接字符串
func buildDSN(c *PostgresConfig) string {
	if c.DSN != "" {
		return c.DSN
	}
	sslmode := "disable"
	if c.SSLMode {
		sslmode = "require"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s application_name=%s",
		c.Host, c.Username, c.Password, c.Database, c.Port, sslmode, serviceName(c.ServiceName))
}

// getLogger gorm 日志，按服务名加前缀
// 关联查询未命中是正常结果，不记录 record not found
func getLogger(service, level string) logger.Interface {
	mode := logger.Info
	switch level {
	case "silent":
		mode = logger.Silent
	case "error":
		mode = logger.Error
	case "warn":
		mode = logger.Warn
	}

	return logger.New(
		log.New(os.Stdout, "["+serviceName(service)+"] ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  mode,
			IgnoreRecordNotFoundError: true,
		},
	)
}

func serviceName(name string) string {
	if name == "" {
		return "unknown-service"
	}
	return name
}
