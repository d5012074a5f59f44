package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string

	FirebaseProject            string
	FirebaseApiKey             string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string

	StorageDriver  string
	StorageBucket  string
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool
	MinIOPublicURL string

	NATSURL string

	SessionCookieName  string
	SessionIdleTimeout time.Duration
	MaxUploadBytes     int64

	AllowedOrigins []string
}

func Load() (*Config, error) {
	godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_API_KEY", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_JSON", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_PATH", "./firebase-service-account.json")
	v.SetDefault("STORAGE_DRIVER", "gcs")
	v.SetDefault("STORAGE_BUCKET", "")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_PUBLIC_URL", "")
	v.SetDefault("NATS_URL", "")
	v.SetDefault("SESSION_COOKIE_NAME", "webcarros_session")
	v.SetDefault("SESSION_IDLE_TIMEOUT", "24h")
	v.SetDefault("MAX_UPLOAD_BYTES", 5*1024*1024)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")

	config := &Config{
		ServerPort:  v.GetString("SERVER_PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),

		FirebaseProject:            v.GetString("FIREBASE_PROJECT_ID"),
		FirebaseApiKey:             v.GetString("FIREBASE_API_KEY"),
		FirebaseServiceAccountJSON: v.GetString("FIREBASE_SERVICE_ACCOUNT_JSON"),
		FirebaseServiceAccountPath: v.GetString("FIREBASE_SERVICE_ACCOUNT_PATH"),

		StorageDriver:  strings.ToLower(v.GetString("STORAGE_DRIVER")),
		StorageBucket:  v.GetString("STORAGE_BUCKET"),
		MinIOEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinIOAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinIOSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinIOUseSSL:    v.GetBool("MINIO_USE_SSL"),
		MinIOPublicURL: v.GetString("MINIO_PUBLIC_URL"),

		NATSURL: v.GetString("NATS_URL"),

		SessionCookieName:  v.GetString("SESSION_COOKIE_NAME"),
		SessionIdleTimeout: v.GetDuration("SESSION_IDLE_TIMEOUT"),
		MaxUploadBytes:     v.GetInt64("MAX_UPLOAD_BYTES"),

		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.FirebaseProject == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}
	if c.StorageBucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}
	switch c.StorageDriver {
	case "gcs", "minio":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q (want gcs or minio)", c.StorageDriver)
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS is required")
	}
	for _, origin := range c.AllowedOrigins {
		// Credentialed CORS cannot use a wildcard.
		if origin == "*" {
			return fmt.Errorf("ALLOWED_ORIGINS must list explicit origins")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// splitList reads a comma separated env value.
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
