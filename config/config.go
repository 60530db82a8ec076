package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config application-wide configuration
type Config struct {
	Server      ServerConfig    `mapstructure:"server"`
	InstituteDB DatabaseConfig  `mapstructure:"institute_db"`
	LocalDB     DatabaseConfig  `mapstructure:"local_db"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Auth        AuthConfig      `mapstructure:"auth"`
	Log         LogConfig       `mapstructure:"log"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Report      ReportConfig    `mapstructure:"report"`
	Cache       CacheConfig     `mapstructure:"cache"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port      int        `mapstructure:"port"`
	BaseURL   string     `mapstructure:"base_url"`
	BodyLimit int64      `mapstructure:"body_limit"` // bytes
	CORS      CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin settings
type CORSConfig struct {
	AllowOrigins  []string      `mapstructure:"allow_origins"`
	ExposeHeaders []string      `mapstructure:"expose_headers"`
	MaxAge        time.Duration `mapstructure:"max_age"`
}

// DatabaseConfig MySQL connection settings.
// The institute store is opened read-only by convention; the local store is read/write.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Params          string `mapstructure:"params"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the go-sql-driver/mysql connection string
func (c *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", c.User, c.Password, c.Host, c.Port, c.Name)
	if c.Params != "" {
		dsn += "?" + c.Params
	}
	return dsn
}

// RedisConfig Redis settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT settings
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
	Issuer          string        `mapstructure:"issuer"`
}

// LogConfig logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig request throttling per client IP and route
type RateLimitConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Requests    int           `mapstructure:"requests"`
	Window      time.Duration `mapstructure:"window"`
	LoginLimit  int           `mapstructure:"login_limit"`
	LoginWindow time.Duration `mapstructure:"login_window"`
}

// ReportConfig report generation settings
type ReportConfig struct {
	TemplatePath     string `mapstructure:"template_path"` // empty = embedded default template
	Honorific        string `mapstructure:"honorific"`
	OfficePrefix     string `mapstructure:"office_prefix"`
	FetchConcurrency int    `mapstructure:"fetch_concurrency"`
	Timezone         string `mapstructure:"timezone"`
}

// CacheConfig catalog cache settings
type CacheConfig struct {
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"`
}

// Load reads configuration from file and environment.
// Precedence: environment > config file > defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.base_url", "http://localhost:3000")
	v.SetDefault("server.body_limit", 2<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:4200"})
	v.SetDefault("server.cors.expose_headers", []string{"Content-Disposition", "X-Request-ID"})
	v.SetDefault("server.cors.max_age", "24h")

	for _, prefix := range []string{"institute_db", "local_db"} {
		v.SetDefault(prefix+".host", "localhost")
		v.SetDefault(prefix+".port", 3306)
		v.SetDefault(prefix+".user", "root")
		v.SetDefault(prefix+".password", "")
		v.SetDefault(prefix+".params", "charset=utf8mb4&parseTime=True&loc=Local")
		v.SetDefault(prefix+".max_open_conns", 20)
		v.SetDefault(prefix+".max_idle_conns", 5)
		v.SetDefault(prefix+".conn_max_lifetime", 60)
		v.SetDefault(prefix+".conn_max_idle_time", 30)
	}
	v.SetDefault("institute_db.name", "sigala")
	v.SetDefault("local_db.name", "evaluacion_docente")
	// golang-migrate runs multi-statement files
	v.SetDefault("local_db.params", "charset=utf8mb4&parseTime=True&loc=Local&multiStatements=true")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "1h")
	v.SetDefault("auth.refresh_token_ttl", "24h")
	v.SetDefault("auth.issuer", "istla-evaluacion")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "15m")
	v.SetDefault("rate_limit.login_limit", 5)
	v.SetDefault("rate_limit.login_window", "15m")

	v.SetDefault("report.template_path", "")
	v.SetDefault("report.honorific", "Ing.")
	v.SetDefault("report.office_prefix", "ISTLA-VR")
	v.SetDefault("report.fetch_concurrency", 8)
	v.SetDefault("report.timezone", "America/Guayaquil")

	v.SetDefault("cache.catalog_ttl", "10m")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("ISTLA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("invalid config: auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("invalid config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535")
	}
	if c.Report.FetchConcurrency < 1 {
		return fmt.Errorf("invalid config: report.fetch_concurrency must be at least 1")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid config: rate_limit.requests and rate_limit.window must be positive")
	}
	return nil
}
