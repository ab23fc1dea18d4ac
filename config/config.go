// config/config.go - 配置管理文件
package config

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	Conf *AppConfig
	once sync.Once
	k    *koanf.Koanf
)

// AppConfig 应用配置结构
type AppConfig struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Store    StoreConfig    `koanf:"store"`
	Log      LogConfig      `koanf:"log"`
	JWT      JWTConfig      `koanf:"jwt"`
	Forum    ForumConfig    `koanf:"forum"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Card     CardConfig     `koanf:"card"`
	CORS     CORSConfig     `koanf:"cors"`
	Hooks    HooksConfig    `koanf:"hooks"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	GRPCPort     int           `koanf:"grpc_port"`
	Mode         string        `koanf:"mode"` // debug, release
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn"` // 完整连接串，优先于下面的字段
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Database     string `koanf:"database"`
	SSLMode      bool   `koanf:"sslmode"`
	LogLevel     string `koanf:"log_level"` // 数据库日志级别
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // 秒
}

// RedisConfig 论坛使用的 Redis，db 需要和论坛一致
type RedisConfig struct {
	URL      string `koanf:"url"` // redis:// 连接串，优先于下面的字段
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`
}

// StoreConfig 关联记录存储
type StoreConfig struct {
	Driver     string `koanf:"driver"`      // redis, postgres, sqlite
	SQLitePath string `koanf:"sqlite_path"` // driver=sqlite 时使用
	ScanBatch  int    `koanf:"scan_batch"`  // redis 按 url 扫描时每批读取的话题数
}

type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error
}

type JWTConfig struct {
	Secret string `koanf:"secret"`
}

// ForumConfig 论坛写接口配置
type ForumConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIToken          string        `koanf:"api_token"`
	Timeout           time.Duration `koanf:"timeout"`
	DefaultCategoryID int           `koanf:"default_category_id"`
	LoginPath         string        `koanf:"login_path"`
	AuthorPolicy      string        `koanf:"author_policy"` // bot, user
	BotUsername       string        `koanf:"bot_username"`
}

// CatalogConfig 物种目录服务配置
type CatalogConfig struct {
	BaseURL       string        `koanf:"base_url"`
	Token         string        `koanf:"token"`
	Collection    string        `koanf:"collection"`
	Timeout       time.Duration `koanf:"timeout"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`
	SlugPrefix    string        `koanf:"slug_prefix"`
	ImageTemplate string        `koanf:"image_template"`
}

type CardConfig struct {
	DescriptionLimit int  `koanf:"description_limit"`
	EscapeHTML       bool `koanf:"escape_html"`
	EmbedOnCreate    bool `koanf:"embed_on_create"`
	ImageWidth       int  `koanf:"image_width"`
	ImageHeight      int  `koanf:"image_height"`
}

type CORSConfig struct {
	AtlasOrigin string `koanf:"atlas_origin"`
}

type HooksConfig struct {
	Token string `koanf:"token"`
}

// Load 加载配置文件
func Load(configPath string) error {
	var err error
	once.Do(func() {
		// 首先加载 .env 文件到环境变量
		if envErr := godotenv.Load(); envErr != nil {
			log.Printf("警告: 无法加载 .env 文件: %v", envErr)
		}

		k = koanf.New(".")

		// 加载配置文件
		if err = k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			err = fmt.Errorf("加载配置文件失败: %w", err)
			return
		}

		// 加载环境变量（会覆盖配置文件）
		if envErr := k.Load(env.Provider("", ".", envKey), nil); envErr != nil {
			log.Printf("加载环境变量失败: %v", envErr)
		}

		Conf, err = unmarshal(k)
	})

	return err
}

// MustLoad 加载配置，失败则 panic
func MustLoad(configPath string) {
	if err := Load(configPath); err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
}

// envKey 把 FORUM__BASE_URL 形式的环境变量映射为 forum.base_url
// 双下划线分隔层级，单下划线保留在键名中
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func unmarshal(k *koanf.Koanf) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// 转换时间单位
	conf.Server.ReadTimeout = conf.Server.ReadTimeout * time.Second
	conf.Server.WriteTimeout = conf.Server.WriteTimeout * time.Second
	conf.Forum.Timeout = conf.Forum.Timeout * time.Second
	conf.Catalog.Timeout = conf.Catalog.Timeout * time.Second

	conf.ApplyDefaults()
	return conf, nil
}

// ApplyDefaults 填充未配置的字段
func (c *AppConfig) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 9090
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "redis"
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "atlas-forum.db"
	}
	if c.Store.ScanBatch == 0 {
		c.Store.ScanBatch = 100
	}
	if c.Forum.Timeout == 0 {
		c.Forum.Timeout = 10 * time.Second
	}
	if c.Forum.DefaultCategoryID == 0 {
		c.Forum.DefaultCategoryID = 81
	}
	if c.Forum.LoginPath == "" {
		c.Forum.LoginPath = "/login"
	}
	if c.Forum.AuthorPolicy == "" {
		c.Forum.AuthorPolicy = "bot"
	}
	if c.Forum.BotUsername == "" {
		c.Forum.BotUsername = "seed-atlas-bot"
	}
	if c.Catalog.Collection == "" {
		c.Catalog.Collection = "species"
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = 15 * time.Second
	}
	if c.Catalog.SlugPrefix == "" {
		c.Catalog.SlugPrefix = "/variety/"
	}
	if c.Card.DescriptionLimit == 0 {
		c.Card.DescriptionLimit = 300
	}
	if c.Card.ImageWidth == 0 {
		c.Card.ImageWidth = 400
	}
	if c.Card.ImageHeight == 0 {
		c.Card.ImageHeight = 300
	}
}
