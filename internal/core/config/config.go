package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const DefaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name        string
	Env         string
	HTTP        HTTP
	Admin       AdminHTTP
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Auth struct {
	Enabled bool
	Role    string
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Limits struct {
	RPS           float64
	Burst         int
	PerIPRPS      float64 `mapstructure:"per_ip_rps"`
	PerIPBurst    int     `mapstructure:"per_ip_burst"`
	MaxConcurrent int64   `mapstructure:"max_concurrent"`
	MaxBodyBytes  int64   `mapstructure:"max_body_bytes"`
	TimeoutSec    int     `mapstructure:"timeout_sec"`
}

type Users struct {
	PerPage     int `mapstructure:"per_page"`
	CacheTTLSec int `mapstructure:"cache_ttl_sec"`
}

type Seed struct {
	OnStart  bool `mapstructure:"on_start"`
	Password string
}

type Client struct {
	BaseURL    string `mapstructure:"base_url"`
	Token      string
	TimeoutSec int `mapstructure:"timeout_sec"`
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	Auth   Auth
	DB     DB
	Redis  Redis `mapstructure:"redis"`
	Limits Limits
	Users  Users
	Seed   Seed
	Client Client
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "user-admin")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "0.0.0.0")
	v.SetDefault("app.admin.port", 8081)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.maxsizemb", 100)
	v.SetDefault("log.rotate.maxbackups", 7)
	v.SetDefault("log.rotate.maxagedays", 30)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.dsn", "file:user-admin.db?_foreign_keys=on")
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "user-admin")
	v.SetDefault("jwt.accesstokenttlmin", 120)
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.role", "admin")

	v.SetDefault("users.per_page", 10)
	v.SetDefault("users.cache_ttl_sec", 60)
	v.SetDefault("seed.password", "password")

	v.SetDefault("client.base_url", "http://127.0.0.1:8080")
	v.SetDefault("client.token", "")
	v.SetDefault("client.timeout_sec", 10)
}

// Load 读取 yaml（可选）+ APP_ 前缀环境变量；path 为空时依次取 CONFIG_PATH、DefaultPath
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 默认路径不存在时只用默认值 + 环境变量
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// MustLoad 失败直接退出，给 main 用
func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return c
}

func (c *Config) validate() error {
	if c.Users.PerPage <= 0 {
		return fmt.Errorf("users.per_page must be > 0, got %d", c.Users.PerPage)
	}
	if c.Auth.Enabled && c.JWT.Secret == "" {
		return errors.New("auth.enabled requires jwt.secret")
	}
	return nil
}
