package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultAPIBaseURL 客户端未配置时使用的后端地址
const DefaultAPIBaseURL = "http://localhost:5000"

type ServerConfig struct {
	Address string `json:"address" env:"SERVER_ADDR"`
}

type SecurityConfig struct {
	MaxBodySize    int64    `json:"maxBodySize" env:"MAX_BODY_SIZE"` // 单位：字节
	AllowedHosts   []string `json:"allowedHosts" env:"ALLOWED_HOSTS" envSeparator:","`
	AllowedMethods []string `json:"allowedMethods" env:"ALLOWED_METHODS" envSeparator:","`
}

type TimeoutConfig struct {
	RequestTimeout int `json:"requestTimeout" env:"REQUEST_TIMEOUT"` // 单位：秒
}

type CORSConfig struct {
	AllowOrigins     []string      `json:"allowOrigins" env:"CORS_ORIGINS" envSeparator:","`
	AllowMethods     []string      `json:"allowMethods"`
	AllowHeaders     []string      `json:"allowHeaders"`
	ExposeHeaders    []string      `json:"exposeHeaders"`
	AllowCredentials bool          `json:"allowCredentials"`
	MaxAge           time.Duration `json:"maxAge"`
	TrustedDomains   []string      `json:"trustedDomains" env:"CORS_TRUSTED_DOMAINS" envSeparator:","`
}

type JWTAuthConfig struct {
	Secret         string        `json:"secret" env:"JWT_SECRET"`
	ExpireDuration time.Duration `json:"expireDuration" env:"JWT_EXPIRATION"`
	Issuer         string        `json:"issuer" env:"JWT_ISSUER"`
	SigningMethod  string        `json:"signingMethod" env:"JWT_ALGORITHM"`
	Realm          string        `json:"realm"`
}

type RateLimitConfig struct {
	Rate     int           `json:"rate" env:"RATE_LIMIT"`
	Interval time.Duration `json:"interval" env:"RATE_LIMIT_INTERVAL"`
}

type MiddlewareConfig struct {
	Security  SecurityConfig  `json:"security"`
	JWT       JWTAuthConfig   `json:"jwt"`
	Timeout   TimeoutConfig   `json:"timeout"`
	CORS      CORSConfig      `json:"cors"`
	RateLimit RateLimitConfig `json:"rateLimit"`
}

type DatabaseConfig struct {
	Host        string `json:"host" env:"DB_HOST"`
	Port        int    `json:"port" env:"DB_PORT"`
	Username    string `json:"username" env:"DB_USER"`
	Password    string `json:"password" env:"DB_PASSWORD"`
	DBName      string `json:"dbname" env:"DB_NAME"`
	UseUnixSock bool   `json:"useUnixSock" env:"DB_SOCKET"` // host 字段存放 socket 路径
	MinPoolSize int    `json:"minPoolSize" env:"DB_MIN_POOL"`
	MaxPoolSize int    `json:"maxPoolSize" env:"DB_MAX_POOL"`
	LogLevel    string `json:"logLevel" env:"DB_LOG_LEVEL"`
	AutoMigrate bool   `json:"autoMigrate" env:"DB_AUTO_MIGRATE"`
}

// ClientConfig 报名客户端访问后端 API 的配置
//
// 历史上前端页面混用了 NEXT_PUBLIC_API_URL 与 BACKEND_URL 两个变量，
// 现统一为 API_BASE_URL，旧变量仅作兜底。
type ClientConfig struct {
	BaseURL      string        `json:"baseUrl" env:"API_BASE_URL"`
	PublicAPIURL string        `json:"-" env:"NEXT_PUBLIC_API_URL"`
	BackendURL   string        `json:"-" env:"BACKEND_URL"`
	Timeout      time.Duration `json:"timeout" env:"API_TIMEOUT"`
}

// ResolveBaseURL 按优先级返回最终使用的 API 地址（不带结尾斜杠）
func (c ClientConfig) ResolveBaseURL() string {
	for _, candidate := range []string{c.BaseURL, c.PublicAPIURL, c.BackendURL} {
		if v := strings.TrimSpace(candidate); v != "" {
			return strings.TrimRight(v, "/")
		}
	}
	return DefaultAPIBaseURL
}

// AccountConfig 账号相关配置，AdminEmails 中的邮箱注册后自动成为管理员
type AccountConfig struct {
	AdminEmails []string `json:"adminEmails" env:"ADMIN_EMAILS" envSeparator:","`
}

type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	Middleware MiddlewareConfig `json:"middleware"`
	Client     ClientConfig     `json:"client"`
	Account    AccountConfig    `json:"account"`
	Env        string           `json:"env" env:"APP_ENV"`
}

// defaultConfig 每次返回新值，切片字段互不共享
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address: ":5000",
		},
		Database: DatabaseConfig{
			Host:        "localhost",
			Port:        3306,
			Username:    "root",
			Password:    "root",
			DBName:      "rcb_marathon",
			UseUnixSock: false,
			MinPoolSize: 5,
			MaxPoolSize: 50,
			LogLevel:    "warn",
			AutoMigrate: true,
		},
		Middleware: MiddlewareConfig{
			Security: SecurityConfig{
				MaxBodySize:    10 << 20, // 10MB
				AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			},
			JWT: JWTAuthConfig{
				Secret:         "dev-secret-change-me-in-production",
				ExpireDuration: 24 * time.Hour,
				Issuer:         "rcb-marathon",
				SigningMethod:  "HS256",
				Realm:          "rcb-marathon",
			},
			Timeout: TimeoutConfig{
				RequestTimeout: 15,
			},
			CORS: CORSConfig{
				AllowOrigins:     []string{"http://localhost:3000"},
				AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With"},
				ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
				AllowCredentials: true,
				MaxAge:           12 * time.Hour,
			},
			RateLimit: RateLimitConfig{
				Rate:     10,
				Interval: time.Second,
			},
		},
		Client: ClientConfig{
			Timeout: 10 * time.Second,
		},
		Env: "development",
	}
}

// Default 返回默认配置的副本
func Default() *Config {
	cfg := defaultConfig()
	return &cfg
}

// IsProd 判断当前是否生产环境
func (c *Config) IsProd() bool {
	return c.Env == "production"
}

// Load 加载配置（优先级：环境变量 > 配置文件 > 默认值）
func Load() *Config {
	config := defaultConfig()

	if configPath := getConfigPath(); configPath != "" {
		if err := loadFromFile(&config, configPath); err != nil {
			hlog.Warnf("Failed to load config file: %v", err)
		}
	}

	if err := LoadFromEnv(&config); err != nil {
		hlog.Warnf("Failed to load config from env: %v", err)
	}

	return &config
}

// getConfigPath 获取配置文件路径
func getConfigPath() string {
	if path := os.Getenv("APP_CONFIG"); path != "" {
		return path
	}

	searchPaths := []string{
		"./config.json",
		"../config.json",
		"/etc/rcb-marathon/config.json",
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadFromFile 从文件加载配置
func loadFromFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, config)
}

// LoadFromEnv 用环境变量覆盖已有配置，未设置的变量保持原值
func LoadFromEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	config.Database.LogLevel = strings.ToLower(config.Database.LogLevel)

	algorithm := strings.ToUpper(strings.ReplaceAll(config.Middleware.JWT.SigningMethod, " ", ""))
	switch algorithm {
	case "HS256", "HS384", "HS512":
		config.Middleware.JWT.SigningMethod = algorithm
	default:
		hlog.Warnf("Unsupported JWT algorithm: %s, falling back to HS256", config.Middleware.JWT.SigningMethod)
		config.Middleware.JWT.SigningMethod = "HS256"
	}
	return nil
}

// DSN 根据连接方式拼接 MySQL 连接串
func (c *Config) DSN() string {
	charsetParam := "charset=utf8mb4&parseTime=True&loc=UTC"

	if c.Database.UseUnixSock {
		return fmt.Sprintf("%s:%s@unix(%s)/%s?%s",
			c.Database.Username,
			c.Database.Password,
			c.Database.Host,
			c.Database.DBName,
			charsetParam)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.Database.Username,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		charsetParam)
}

func (c *Config) InitDB() (*gorm.DB, error) {
	// 配置GORM日志级别
	gormConfig := &gorm.Config{TranslateError: true}
	switch c.Database.LogLevel {
	case "silent":
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	case "error":
		gormConfig.Logger = logger.Default.LogMode(logger.Error)
	case "warn":
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	case "info":
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(mysql.Open(c.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(c.Database.MinPoolSize)
	sqlDB.SetMaxOpenConns(c.Database.MaxPoolSize)

	return db, nil
}
