package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `envconfig:"DB_HOST"`
	Port               string `envconfig:"DB_PORT" default:"5432"`
	User               string `envconfig:"DB_USER"`
	Password           string `envconfig:"DB_PASSWORD"`
	Name               string `envconfig:"DB_NAME"`
	SSLMode            string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns       int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns       int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetimeSec int    `envconfig:"DB_CONN_MAX_LIFETIME_SEC" default:"300"`
}

// MinIOConfig holds object storage settings for document attachments.
type MinIOConfig struct {
	Endpoint  string        `envconfig:"MINIO_ENDPOINT"`
	AccessKey string        `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string        `envconfig:"MINIO_SECRET_KEY"`
	Bucket    string        `envconfig:"MINIO_BUCKET" default:"awd-attachments"`
	UseSSL    bool          `envconfig:"MINIO_USE_SSL" default:"false"`
	URLExpiry time.Duration `envconfig:"ATTACHMENT_URL_TTL" default:"15m"`
}

// RedisConfig holds the session store and change feed connection.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// AuthConfig holds token signing and session lifetime settings.
type AuthConfig struct {
	JWTSecret  string        `envconfig:"JWT_SECRET"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"12h"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string `envconfig:"APP_HOST" default:"localhost:8080"`
	Port     string `envconfig:"PORT" default:"8080"`
	Timezone string `envconfig:"APP_TIMEZONE" default:"UTC"`
	Database DatabaseConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Log      LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process config: %w", err)
	}
	return &cfg, nil
}

// Location resolves APP_TIMEZONE. Every local-date computation (deadlines,
// badges, reference years) uses it. Unknown names fall back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
