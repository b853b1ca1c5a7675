package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle"`
	Photo     PhotoConfig     `mapstructure:"photo"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	BaseURL      string     `mapstructure:"base_url"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// 存储驱动
const (
	StoreDriverSheets   = "sheets"
	StoreDriverXLSX     = "xlsx"
	StoreDriverPostgres = "postgres"
)

// StoreConfig 花名册与申请表的存储配置
type StoreConfig struct {
	Driver           string       `mapstructure:"driver"` // sheets | xlsx | postgres
	RosterSource     string       `mapstructure:"roster_source"`
	RequestSource    string       `mapstructure:"request_source"`
	ConditionalWrite bool         `mapstructure:"conditional_write"` // 写入前校验版本（默认关闭，保持整表覆盖语义）
	Sheets           SheetsConfig `mapstructure:"sheets"`
	XLSX             XLSXConfig   `mapstructure:"xlsx"`
}

// SheetsConfig Google Sheets 配置
type SheetsConfig struct {
	SpreadsheetID   string        `mapstructure:"spreadsheet_id"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	CredentialsJSON string        `mapstructure:"credentials_json"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// XLSXConfig 本地工作簿配置
type XLSXConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig PostgreSQL 数据库配置（store.driver=postgres 时使用）
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 静态账号 + JWT 会话配置
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	Users           []UserConfig  `mapstructure:"users"`
	LoginRateLimit  int           `mapstructure:"login_rate_limit"`
	LoginRateWindow time.Duration `mapstructure:"login_rate_window"`
	Cookie          CookieConfig  `mapstructure:"cookie"`
}

// UserConfig 静态账号
type UserConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"` // bcrypt
	DisplayName  string `mapstructure:"display_name"`
	Role         string `mapstructure:"role"` // admin | manager | viewer
}

// CookieConfig Cookie 安全配置
type CookieConfig struct {
	Name     string `mapstructure:"name"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
	Domain   string `mapstructure:"domain"`
}

// 申请编号生成方案
const (
	IDSchemeConcat = "concat"
	IDSchemeLast4  = "last4"
)

// LifecycleConfig 申请生命周期规则
type LifecycleConfig struct {
	IDScheme             string   `mapstructure:"id_scheme"` // concat | last4
	AllowedBillability   []string `mapstructure:"allowed_billability"`
	ExcludedDesignations []string `mapstructure:"excluded_designations"`
}

// 照片来源
const (
	PhotoSourceNone = "none"
	PhotoSourceHTTP = "http"
	PhotoSourceS3   = "s3"
)

// PhotoConfig 员工照片配置
type PhotoConfig struct {
	Source      string        `mapstructure:"source"` // none | http | s3
	URLTemplate string        `mapstructure:"url_template"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RedisTTL    time.Duration `mapstructure:"redis_ttl"`
	S3          S3Config      `mapstructure:"s3"`
}

// S3Config 照片桶配置
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	KeyTemplate     string `mapstructure:"key_template"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"` // stdout / stderr / 文件路径
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:8080"})

	v.SetDefault("store.driver", StoreDriverXLSX)
	v.SetDefault("store.roster_source", "Employee Data")
	v.SetDefault("store.request_source", "Employee ADS")
	v.SetDefault("store.conditional_write", false)
	v.SetDefault("store.sheets.timeout", "30s")
	v.SetDefault("store.xlsx.path", "./data/board.xlsx")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "rab")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.session_ttl", "12h")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_rate_window", "1m")
	v.SetDefault("auth.cookie.name", "rab_session")
	v.SetDefault("auth.cookie.secure", false)
	v.SetDefault("auth.cookie.same_site", "Lax")

	v.SetDefault("lifecycle.id_scheme", IDSchemeConcat)
	v.SetDefault("lifecycle.allowed_billability", []string{"Unbilled"})
	v.SetDefault("lifecycle.excluded_designations", []string{})

	v.SetDefault("photo.source", PhotoSourceNone)
	v.SetDefault("photo.timeout", "5s")
	v.SetDefault("photo.redis_ttl", "24h")
	v.SetDefault("photo.s3.key_template", "photos/{id}.jpg")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("RAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 无默认值的密钥类配置需显式绑定，Unmarshal 才会读取环境变量
	for _, key := range []string{
		"auth.jwt_secret",
		"store.sheets.spreadsheet_id",
		"store.sheets.credentials_file",
		"store.sheets.credentials_json",
		"photo.url_template",
		"photo.s3.bucket",
		"photo.s3.region",
		"photo.s3.access_key_id",
		"photo.s3.secret_access_key",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}

	switch c.Store.Driver {
	case StoreDriverSheets:
		if c.Store.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("配置校验失败: store.sheets.spreadsheet_id 不能为空")
		}
		if c.Store.Sheets.CredentialsFile == "" && c.Store.Sheets.CredentialsJSON == "" {
			return fmt.Errorf("配置校验失败: store.sheets 需要 credentials_file 或 credentials_json")
		}
	case StoreDriverXLSX:
		if c.Store.XLSX.Path == "" {
			return fmt.Errorf("配置校验失败: store.xlsx.path 不能为空")
		}
	case StoreDriverPostgres:
	default:
		return fmt.Errorf("配置校验失败: 不支持的 store.driver %q", c.Store.Driver)
	}
	if c.Store.RosterSource == "" || c.Store.RequestSource == "" {
		return fmt.Errorf("配置校验失败: store.roster_source 与 store.request_source 不能为空")
	}

	switch c.Lifecycle.IDScheme {
	case IDSchemeConcat, IDSchemeLast4:
	default:
		return fmt.Errorf("配置校验失败: 不支持的 lifecycle.id_scheme %q", c.Lifecycle.IDScheme)
	}

	switch c.Photo.Source {
	case PhotoSourceNone:
	case PhotoSourceHTTP:
		if !strings.Contains(c.Photo.URLTemplate, "{id}") {
			return fmt.Errorf("配置校验失败: photo.url_template 必须包含 {id}")
		}
	case PhotoSourceS3:
		if c.Photo.S3.Bucket == "" || c.Photo.S3.Region == "" {
			return fmt.Errorf("配置校验失败: photo.s3.bucket 与 photo.s3.region 不能为空")
		}
	default:
		return fmt.Errorf("配置校验失败: 不支持的 photo.source %q", c.Photo.Source)
	}

	seen := make(map[string]bool, len(c.Auth.Users))
	for _, u := range c.Auth.Users {
		if u.Username == "" || u.PasswordHash == "" {
			return fmt.Errorf("配置校验失败: auth.users 中存在缺少用户名或密码哈希的账号")
		}
		if seen[u.Username] {
			return fmt.Errorf("配置校验失败: auth.users 用户名 %q 重复", u.Username)
		}
		seen[u.Username] = true
		switch u.Role {
		case "admin", "manager", "viewer":
		default:
			return fmt.Errorf("配置校验失败: 用户 %q 的角色 %q 无效", u.Username, u.Role)
		}
	}
	return nil
}
