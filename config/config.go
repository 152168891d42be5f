package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Config struct {
	Addr string
	Env  string

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string

	Minio MinioConfig

	JWTSecret string

	// PageLimit is the default list page size when the caller does not
	// supply one.
	PageLimit int
	// MaxUploadBytes bounds a single image payload.
	MaxUploadBytes int64
	// CallTimeout bounds every outbound store/broker call.
	CallTimeout time.Duration
}

// Load reads configuration from the environment. MONGODB_URI is the only
// hard requirement; everything else has a local-dev default.
func Load() (*Config, error) {
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI environment variable is not set")
	}

	cfg := &Config{
		Addr:          getEnv("ADDR", ":10000"),
		Env:           getEnv("APP_ENV", "development"),
		MongoURI:      mongoURI,
		MongoDB:       getEnv("MONGO_DB", "recipedb"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:  splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "recipe-images"),
			UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		},
		JWTSecret:      os.Getenv("JWT_SECRET"),
		PageLimit:      getEnvInt("PAGE_LIMIT", 30),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		CallTimeout:    getEnvDuration("CALL_TIMEOUT", 5*time.Second),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
