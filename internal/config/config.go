package config

import (
	"os"
	"strconv"
	"time"
)

// Config collects every runtime knob. Values come from the environment
// with local-development fallbacks; a .env file is loaded by main.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	JWTSecret string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// BodyLimit caps one multipart request body.
	BodyLimit int

	// Retention windows for produced files. Authenticated requests get
	// the long window, anonymous one-shot requests the short one.
	OwnedRetention time.Duration
	AnonRetention  time.Duration

	// SweepInterval is the expiry reaper cadence.
	SweepInterval time.Duration

	// ScratchDir holds per-request engine work directories.
	ScratchDir string
}

func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017/pdftoolbox"),
		MongoDB:        getEnv("MONGO_DB", "pdftoolbox"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "pdf-files"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		BodyLimit:      getEnvInt("BODY_LIMIT_BYTES", 10<<20),
		OwnedRetention: getEnvDuration("FILE_RETENTION", 24*time.Hour),
		AnonRetention:  getEnvDuration("ANON_FILE_RETENTION", time.Hour),
		SweepInterval:  getEnvDuration("SWEEP_INTERVAL", time.Hour),
		ScratchDir:     getEnv("SCRATCH_DIR", os.TempDir()),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
