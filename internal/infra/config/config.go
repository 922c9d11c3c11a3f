package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	FAQ      FAQConfig      `yaml:"faq"`
	Auth     AuthConfig     `yaml:"auth"`
	Upload   UploadConfig   `yaml:"upload"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// DatabaseConfig selects the persistence backend. Postgres wins over SQLite when both are set;
// with neither the service keeps everything in memory.
type DatabaseConfig struct {
	Postgres    PostgresConfig `yaml:"postgres"`
	SQLite      SQLiteConfig   `yaml:"sqlite"`
	AutoMigrate bool           `yaml:"autoMigrate"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// SQLiteConfig points at the database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig controls the FAQ list cache.
type CacheConfig struct {
	TTL    time.Duration `yaml:"ttl"`
	Prefix string        `yaml:"prefix"`
	Redis  RedisConfig   `yaml:"redis"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Language is one entry of the UI language selector.
type Language struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// FAQConfig controls presentation of FAQ content.
type FAQConfig struct {
	Languages       []Language `yaml:"languages"`
	DefaultLanguage string     `yaml:"defaultLanguage"`
}

// AuthConfig controls account tokens and the browser session cookie.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
	CookieName      string        `yaml:"cookieName"`
	SecureCookie    bool          `yaml:"secureCookie"`
}

// UploadConfig controls editor image uploads.
type UploadConfig struct {
	MaxBytes int64    `yaml:"maxBytes"`
	S3       S3Config `yaml:"s3"`
}

// S3Config holds credentials for an S3-compatible bucket.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Load reads configuration from a YAML file, an optional .env file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(os.Getenv("ENV_FILE")); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// loadDotEnv populates the process environment from path (or ./.env). Variables that are already
// set win over the file. A missing default file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.Postgres.DSN = v
	}
	if v := os.Getenv("DATABASE_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Database.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("DATABASE_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Database.Postgres.MinConns = int32(parsed)
		}
	}
	if v, ok := os.LookupEnv("SQLITE_PATH"); ok {
		cfg.Database.SQLite.Path = v
	}
	if v := os.Getenv("DATABASE_AUTO_MIGRATE"); v != "" {
		cfg.Database.AutoMigrate = parseBool(v)
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Redis.Addr = v
		cfg.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		cfg.Cache.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("FAQ_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("FAQ_DEFAULT_LANGUAGE"); v != "" {
		cfg.FAQ.DefaultLanguage = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
	if v := os.Getenv("AUTH_REFRESH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.RefreshTokenTTL = parsed
		}
	}
	if v := os.Getenv("AUTH_SECURE_COOKIE"); v != "" {
		cfg.Auth.SecureCookie = parseBool(v)
	}
	if v := os.Getenv("UPLOAD_MAX_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Upload.MaxBytes = parsed
		}
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		cfg.Upload.S3.Endpoint = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		cfg.Upload.S3.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		cfg.Upload.S3.SecretKey = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.Upload.S3.Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		cfg.Upload.S3.Region = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             40,
			},
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
			SQLite: SQLiteConfig{
				Path: "db.sqlite3",
			},
			AutoMigrate: true,
		},
		Cache: CacheConfig{
			TTL:    time.Hour,
			Prefix: "faq",
		},
		FAQ: FAQConfig{
			Languages: []Language{
				{Code: "en", Name: "English"},
				{Code: "hi", Name: "Hindi"},
				{Code: "bn", Name: "Bengali"},
			},
			DefaultLanguage: "en",
		},
		Auth: AuthConfig{
			TokenTTL:        14 * 24 * time.Hour,
			RefreshTokenTTL: 30 * 24 * time.Hour,
			CookieName:      "faq_session",
		},
		Upload: UploadConfig{
			MaxBytes: 5 << 20,
		},
	}
}

// Validate ensures the configuration is safe to use. Every problem is reported, not only the first.
func (c *Config) Validate() error {
	var result *multierror.Error
	fail := func(msg string) {
		result = multierror.Append(result, errors.New(msg))
	}

	if c.HTTP.Address == "" {
		fail("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			fail("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			fail("http.rateLimit.burst must be positive")
		}
	}
	if c.Database.Postgres.MaxConns < 0 || c.Database.Postgres.MinConns < 0 {
		fail("database.postgres connection limits cannot be negative")
	}
	if c.Cache.TTL < 0 {
		fail("cache.ttl cannot be negative")
	}
	if c.Cache.Redis.Enabled && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		fail("cache.redis.addr cannot be empty when redis cache is enabled")
	}
	if len(c.FAQ.Languages) == 0 {
		fail("faq.languages cannot be empty")
	} else if !c.FAQ.HasLanguage(c.FAQ.DefaultLanguage) {
		fail("faq.defaultLanguage must be one of faq.languages")
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		fail("auth.secret cannot be empty (set SECRET_KEY)")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		fail("auth token ttls must be positive")
	}
	if strings.TrimSpace(c.Auth.CookieName) == "" {
		fail("auth.cookieName cannot be empty")
	}
	if c.Upload.MaxBytes <= 0 {
		fail("upload.maxBytes must be positive")
	}
	if c.Upload.S3.Endpoint != "" && c.Upload.S3.Bucket == "" {
		fail("upload.s3.bucket cannot be empty when an endpoint is configured")
	}

	return result.ErrorOrNil()
}

// HasLanguage reports whether code is one of the configured languages.
func (f FAQConfig) HasLanguage(code string) bool {
	for _, lang := range f.Languages {
		if lang.Code == code {
			return true
		}
	}
	return false
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
