package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StorageS3         = "s3"
	StorageFilesystem = "fs"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	StaticDir string `env:"STATIC_DIR"`

	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`

	Notifications NotificationConfig
	Mongo         MongoConfig
	Redis         RedisConfig
	Storage       StorageConfig
}

type NotificationConfig struct {
	SuppressSelf bool          `env:"SUPPRESS_SELF_NOTIFICATIONS, default=false"`
	DedupWindow  time.Duration `env:"NOTIFY_DEDUP_WINDOW,         default=10m"`
	Workers      int           `env:"NOTIFY_WORKERS,              default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=social"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type StorageConfig struct {
	Backend string `env:"STORAGE_BACKEND, default=fs"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION,     default=us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	FSRoot      string `env:"FS_ROOT,       default=./uploads"`
	FSPublicURL string `env:"FS_PUBLIC_URL, default=/uploads"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageFilesystem:
	case StorageS3:
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required with STORAGE_BACKEND=%s", StorageS3)
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	if c.Notifications.Workers < 0 {
		return fmt.Errorf("NOTIFY_WORKERS must not be negative")
	}
	if c.Notifications.DedupWindow < 0 {
		return fmt.Errorf("NOTIFY_DEDUP_WINDOW must not be negative")
	}
	return nil
}
