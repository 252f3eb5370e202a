package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"amphomeus/internal/pkg/mediastore"
)

const (
	defaultPort          = "8080"
	defaultDatabaseURL   = "amphomeus.db"
	defaultAppBaseURL    = "http://localhost:8080"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultDevTokenTTL   = "24h"
	defaultMediaRegion   = "us-east-1"
	defaultMediaBucket   = "amphomeus"
	defaultMediaFolder   = "amphomeus"
	defaultSweepGrace    = "24h"
	defaultMediaEndpoint = "http://127.0.0.1:9000"
)

type Config struct {
	AppEnv         string
	Port           string
	DatabaseURL    string
	AppBaseURL     string
	LogLevel       string
	AllowedOrigins []string

	Auth  AuthConfig
	Media mediastore.Config

	SweepGracePeriod time.Duration
}

// AuthConfig describes the external identity provider whose HS256 tokens
// the API accepts.
type AuthConfig struct {
	JWTSecret   string
	Issuer      string
	ProviderURL string
	DevTokenTTL time.Duration
}

// Load reads the given dotenv files (default ".env") when present and
// builds the configuration from the environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		AppEnv:         strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", "dev"))),
		Port:           strings.TrimSpace(getEnv("PORT", defaultPort)),
		DatabaseURL:    strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL)),
		AppBaseURL:     strings.TrimRight(strings.TrimSpace(getEnv("APP_BASE_URL", defaultAppBaseURL)), "/"),
		LogLevel:       strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Auth: AuthConfig{
			JWTSecret:   strings.TrimSpace(getEnv("AUTH_JWT_SECRET", defaultJWTSecret)),
			Issuer:      strings.TrimSpace(os.Getenv("AUTH_ISSUER")),
			ProviderURL: strings.TrimRight(strings.TrimSpace(os.Getenv("AUTH_PROVIDER_URL")), "/"),
		},
		Media: mediastore.Config{
			Endpoint:      strings.TrimSpace(getEnv("MEDIA_ENDPOINT", defaultMediaEndpoint)),
			Region:        strings.TrimSpace(getEnv("MEDIA_REGION", defaultMediaRegion)),
			Bucket:        strings.TrimSpace(getEnv("MEDIA_BUCKET", defaultMediaBucket)),
			AccessKey:     strings.TrimSpace(os.Getenv("MEDIA_ACCESS_KEY")),
			SecretKey:     strings.TrimSpace(os.Getenv("MEDIA_SECRET_KEY")),
			PublicBaseURL: strings.TrimSpace(os.Getenv("MEDIA_PUBLIC_BASE_URL")),
			Folder:        strings.TrimSpace(getEnv("MEDIA_FOLDER", defaultMediaFolder)),
			UsePathStyle:  parseBoolEnv("MEDIA_USE_PATH_STYLE", "true"),
		},
	}

	var err error
	cfg.Media.MaxUploadBytes, err = parseInt64Env("MEDIA_MAX_UPLOAD_BYTES", strconv.FormatInt(mediastore.DefaultMaxUploadBytes, 10))
	if err != nil {
		return nil, err
	}
	cfg.Auth.DevTokenTTL, err = parseDurationEnv("AUTH_DEV_TOKEN_TTL", defaultDevTokenTTL)
	if err != nil {
		return nil, err
	}
	cfg.SweepGracePeriod, err = parseDurationEnv("SWEEP_GRACE_PERIOD", defaultSweepGrace)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.Media.MaxUploadBytes <= 0 {
		return fmt.Errorf("MEDIA_MAX_UPLOAD_BYTES must be > 0")
	}
	if cfg.Media.Bucket == "" {
		return fmt.Errorf("MEDIA_BUCKET must not be empty")
	}
	if cfg.SweepGracePeriod <= 0 {
		return fmt.Errorf("SWEEP_GRACE_PERIOD must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.Auth.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release AUTH_JWT_SECRET must be set and not default")
		}
		if cfg.Media.AccessKey == "" || cfg.Media.SecretKey == "" {
			return fmt.Errorf("in prod/release MEDIA_ACCESS_KEY and MEDIA_SECRET_KEY must be set")
		}
		if cfg.Media.PublicBaseURL == "" {
			return fmt.Errorf("in prod/release MEDIA_PUBLIC_BASE_URL must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseInt64Env(name, fallback string) (int64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
