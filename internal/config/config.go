package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends
const (
	StoreRedisMongo = "redis+mongo"
	StoreMemory     = "memory"
)

var ErrMissingSecret = errors.New("JWT_SECRET must be set in production")

// Config holds server configuration loaded from an optional file and the environment.
type Config struct {
	Env       string        `mapstructure:"env"`        // local, dev, production
	HTTPPort  string        `mapstructure:"http_port"`  // listen port
	PublicURL string        `mapstructure:"public_url"` // base URL used in editor links
	Store     string        `mapstructure:"store"`      // redis+mongo or memory
	JWTSecret string        `mapstructure:"jwt_secret"` // signs editor session tokens
	Session   SessionConfig `mapstructure:"session"`
	Mongo     MongoConfig   `mapstructure:"mongo"`
	Redis     RedisConfig   `mapstructure:"redis"`
	CORS      CORSConfig    `mapstructure:"cors"`
}

type SessionConfig struct {
	TTL      time.Duration `mapstructure:"ttl"`       // hot copy lifetime in redis
	TokenTTL time.Duration `mapstructure:"token_ttl"` // editor token lifetime
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type CORSConfig struct {
	AllowedOrigins string `mapstructure:"allowed_origins"`
	AllowedMethods string `mapstructure:"allowed_methods"`
	AllowedHeaders string `mapstructure:"allowed_headers"`
}

// Load reads .env and config/config.yaml when present and applies environment overrides.
func Load() (*Config, error) {
	// a local .env fills in variables that are not already set
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("http_port", "HTTP_PORT", "PORT")
	_ = v.BindEnv("public_url", "PUBLIC_URL")
	_ = v.BindEnv("store", "STORE")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("session.ttl", "SESSION_TTL")
	_ = v.BindEnv("session.token_ttl", "SESSION_TOKEN_TTL")
	_ = v.BindEnv("mongo.uri", "MONGO_URI")
	_ = v.BindEnv("mongo.database", "MONGO_DATABASE")
	_ = v.BindEnv("redis.addr", "REDIS_URI", "REDIS_ADDR")
	_ = v.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	_ = v.BindEnv("cors.allowed_methods", "CORS_ALLOWED_METHODS")
	_ = v.BindEnv("cors.allowed_headers", "CORS_ALLOWED_HEADERS")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return normalize(&cfg)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("http_port", "8080")
	v.SetDefault("public_url", "http://localhost:8080")
	v.SetDefault("store", StoreRedisMongo)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.token_ttl", "720h")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "surveybuilder")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("cors.allowed_origins", "*")
	v.SetDefault("cors.allowed_methods", "GET, POST, PUT, DELETE, OPTIONS")
	v.SetDefault("cors.allowed_headers", "Content-Type, Authorization")
}

func normalize(cfg *Config) (*Config, error) {
	// Remove redis:// prefix if present
	cfg.Redis.Addr = strings.TrimPrefix(cfg.Redis.Addr, "redis://")
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	switch cfg.Store {
	case StoreRedisMongo, StoreMemory:
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingSecret
		}
		cfg.JWTSecret = "dev-secret-change-in-production"
	}
	return cfg, nil
}

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
