package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: 8080},
		Store:     StoreConfig{Driver: StoreDriverXLSX, RosterSource: "Employee Data", RequestSource: "Employee ADS", XLSX: XLSXConfig{Path: "board.xlsx"}},
		Auth:      AuthConfig{JWTSecret: "0123456789abcdef"},
		Lifecycle: LifecycleConfig{IDScheme: IDSchemeConcat},
		Photo:     PhotoConfig{Source: PhotoSourceNone},
	}
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "file-secret-0123456789"
  users:
    - username: alice
      password_hash: "$2a$10$abc"
      display_name: "Alice"
      role: manager
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("期望默认端口 8080，实际: %d", cfg.Server.Port)
	}
	if cfg.Store.Driver != StoreDriverXLSX || cfg.Store.RequestSource != "Employee ADS" {
		t.Errorf("存储默认值不正确: %+v", cfg.Store)
	}
	if cfg.Auth.SessionTTL != 12*time.Hour {
		t.Errorf("期望会话有效期 12h，实际: %v", cfg.Auth.SessionTTL)
	}
	if len(cfg.Auth.Users) != 1 || cfg.Auth.Users[0].Role != "manager" {
		t.Errorf("账号未正确解析: %+v", cfg.Auth.Users)
	}
	if len(cfg.Lifecycle.AllowedBillability) != 1 || cfg.Lifecycle.AllowedBillability[0] != "Unbilled" {
		t.Errorf("期望默认可调岗计费状态为 Unbilled，实际: %v", cfg.Lifecycle.AllowedBillability)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	t.Setenv("RAB_AUTH_JWT_SECRET", "env-secret-0123456789")
	t.Setenv("RAB_SERVER_PORT", "9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Auth.JWTSecret != "env-secret-0123456789" {
		t.Errorf("环境变量应覆盖 jwt_secret，实际: %q", cfg.Auth.JWTSecret)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("环境变量应覆盖配置文件端口，实际: %d", cfg.Server.Port)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "jwt_secret") {
		t.Errorf("缺少 jwt_secret 应失败，实际: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"短密钥", func(c *Config) { c.Auth.JWTSecret = "short" }, "jwt_secret"},
		{"未知驱动", func(c *Config) { c.Store.Driver = "csv" }, "store.driver"},
		{"Sheets 缺表格", func(c *Config) { c.Store.Driver = StoreDriverSheets }, "spreadsheet_id"},
		{"未知编号方案", func(c *Config) { c.Lifecycle.IDScheme = "uuid" }, "id_scheme"},
		{"照片模板缺 id", func(c *Config) { c.Photo.Source = PhotoSourceHTTP; c.Photo.URLTemplate = "https://x/a.jpg" }, "url_template"},
		{"S3 缺桶", func(c *Config) { c.Photo.Source = PhotoSourceS3 }, "photo.s3"},
		{"角色无效", func(c *Config) {
			c.Auth.Users = []UserConfig{{Username: "a", PasswordHash: "h", Role: "root"}}
		}, "角色"},
		{"用户名重复", func(c *Config) {
			c.Auth.Users = []UserConfig{{Username: "a", PasswordHash: "h", Role: "admin"}, {Username: "a", PasswordHash: "h", Role: "viewer"}}
		}, "重复"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("期望包含 %q 的错误，实际: %v", tc.want, err)
			}
		})
	}

	if err := validConfig().Validate(); err != nil {
		t.Errorf("合法配置不应报错: %v", err)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "rab", SSLMode: "disable", Timezone: "UTC"}
	want := "host=db port=5432 user=u password=p dbname=rab sslmode=disable TimeZone=UTC"
	if got := c.DSN(); got != want {
		t.Errorf("DSN 不正确: %s", got)
	}
}
