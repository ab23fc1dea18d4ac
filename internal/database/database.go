package database

import (
	"fmt"
	"time"

	"terminal-terrace/atlas-forum/config"
	"terminal-terrace/atlas-forum/internal/association"
	"terminal-terrace/atlas-forum/internal/model"
	"terminal-terrace/atlas-forum/packages/database"

	"gorm.io/gorm"
)

const serviceName = "atlas-forum"

// Store 初始化后的关联存储及其释放函数
type Store struct {
	association.Store
	Close func() error
}

// InitStore 按 store.driver 初始化关联存储
// redis 与论坛共用键空间；postgres/sqlite 使用带索引的表
func InitStore(conf *config.AppConfig) (*Store, error) {
	switch conf.Store.Driver {
	case "redis":
		return initRedis(conf)
	case "postgres":
		db, err := initPostgres(conf.Database, conf.Log.Level)
		if err != nil {
			return nil, err
		}
		return sqlStore(db)
	case "sqlite":
		db, err := database.InitSQLite(&database.SQLiteConfig{
			ServiceName: serviceName,
			Path:        conf.Store.SQLitePath,
			LogLevel:    logLevel(conf.Database.LogLevel, conf.Log.Level),
		})
		if err != nil {
			return nil, err
		}
		return sqlStore(db)
	default:
		return nil, fmt.Errorf("未知的存储驱动: %q", conf.Store.Driver)
	}
}

func initRedis(conf *config.AppConfig) (*Store, error) {
	redisConf := conf.Redis
	client, err := database.InitRedis(&database.RedisConfig{
		ServiceName: serviceName,
		URL:         redisConf.URL,
		Host:        redisConf.Host,
		Port:        redisConf.Port,
		Password:    redisConf.Password,
		DB:          redisConf.DB,
		PoolSize:    redisConf.PoolSize,
	})
	if err != nil {
		return nil, err
	}
	return &Store{
		Store: association.NewRedisStore(client.Client, conf.Store.ScanBatch),
		Close: client.Close,
	}, nil
}

func initPostgres(databaseConf config.DatabaseConfig, fallbackLevel string) (*gorm.DB, error) {
	return database.InitPostgres(
		&database.PostgresConfig{
			ServiceName:     serviceName,
			DSN:             databaseConf.DSN,
			Username:        databaseConf.Username,
			Password:        databaseConf.Password,
			Host:            databaseConf.Host,
			Port:            databaseConf.Port,
			Database:        databaseConf.Database,
			SSLMode:         databaseConf.SSLMode,
			LogLevel:        logLevel(databaseConf.LogLevel, fallbackLevel),
			MaxIdleConns:    databaseConf.MaxIdleConns,
			MaxOpenConns:    databaseConf.MaxOpenConns,
			ConnMaxLifetime: time.Duration(databaseConf.MaxLifetime) * time.Second,
		},
	)
}

func sqlStore(db *gorm.DB) (*Store, error) {
	// 初始化数据库表
	if err := model.InitTable(db); err != nil {
		return nil, fmt.Errorf("初始化数据表失败: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &Store{
		Store: association.NewSQLStore(db),
		Close: sqlDB.Close,
	}, nil
}

// logLevel 数据库未单独配置时沿用全局日志级别
func logLevel(level, fallback string) string {
	switch {
	case level != "":
		return level
	case fallback == "debug":
		return "info"
	case fallback != "":
		return fallback
	default:
		return "warn"
	}
}
