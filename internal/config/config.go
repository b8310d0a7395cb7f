package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Auth           AuthConfig
	Uploads        UploadsConfig
	Media          MediaConfig
	RateLimit      RateLimitConfig
	AdminBootstrap AdminBootstrapConfig
	Logging        LoggingConfig
	Environment    string
}

type ServerConfig struct {
	Host    string
	Port    int
	BaseURL string
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
	MaxIdle        int
}

type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
	Issuer    string
}

type UploadsConfig struct {
	Dir      string
	MaxBytes int64
}

// MediaConfig describes the remote object store. When Bucket is empty the
// remote step is skipped and uploads go straight to local disk.
type MediaConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

type RateLimitConfig struct {
	SubmitPerMinute int
	SubmitBurst     int
}

type AdminBootstrapConfig struct {
	Username string
	Password string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvInt("SERVER_PORT", 8080),
			BaseURL: getEnv("SERVER_BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConnections: getEnvInt("DATABASE_MAX_CONNECTIONS", 25),
			MaxIdle:        getEnvInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
			Issuer:    getEnv("JWT_ISSUER", "samiti-server"),
		},
		Uploads: UploadsConfig{
			Dir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 5<<20)),
		},
		Media: MediaConfig{
			Bucket:        getEnv("MEDIA_S3_BUCKET", ""),
			Region:        getEnv("MEDIA_S3_REGION", ""),
			Endpoint:      getEnv("MEDIA_S3_ENDPOINT", ""),
			PublicBaseURL: getEnv("MEDIA_PUBLIC_BASE_URL", ""),
		},
		RateLimit: RateLimitConfig{
			SubmitPerMinute: getEnvInt("RATE_LIMIT_SUBMIT", 30),
			SubmitBurst:     getEnvInt("RATE_LIMIT_SUBMIT_BURST", 10),
		},
		AdminBootstrap: AdminBootstrapConfig{
			Username: getEnv("ADMIN_USERNAME", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
