package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL string

	// Asset store backend: "disk" (flat uploads directory) or "minio".
	StorageBackend string
	UploadsDir     string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	MaxPhotoBytes      int64
	ImportFetchTimeout time.Duration
	OrphanRetention    time.Duration

	AdminJWTSecret string

	CORSOrigins string

	ResendAPIKey string
	FromEmail    string
	ReportEmail  string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		StorageBackend: getEnv("STORAGE_BACKEND", "disk"),
		UploadsDir:     getEnv("UPLOADS_DIR", "uploads"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "member-photos"),
		MinIOUseSSL:    getBoolEnv("MINIO_USE_SSL", false),

		MaxPhotoBytes:      getInt64Env("MAX_PHOTO_BYTES", 5*1024*1024),
		ImportFetchTimeout: getDurationEnv("IMPORT_FETCH_TIMEOUT", 30*time.Second),
		OrphanRetention:    getDurationEnv("ORPHAN_RETENTION", 24*time.Hour),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@example.com"),
		ReportEmail:  getEnv("REPORT_EMAIL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
