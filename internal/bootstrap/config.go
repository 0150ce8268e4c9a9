package bootstrap

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ModelBaseURL string
	ModelName    string
	ModelTimeout time.Duration

	MaxVideoDurationSeconds float64
	MaxVideoSizeBytes       int64
	MaxFrames               int
	VideoTTL                time.Duration

	ContextBudgetChars int
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,

		ModelBaseURL: getEnv("MODEL_BASE_URL", "http://localhost:11434"),
		ModelName:    getEnv("MODEL_NAME", "llava"),
		ModelTimeout: getEnvDuration("MODEL_TIMEOUT", 60*time.Second),

		MaxVideoDurationSeconds: 120,
		MaxVideoSizeBytes:       int64(getEnvInt("MAX_VIDEO_SIZE_MB", 100)) * 1024 * 1024,
		MaxFrames:               getEnvInt("MAX_FRAMES", 10),
		VideoTTL:                getEnvDuration("VIDEO_TTL", 30*time.Minute),

		ContextBudgetChars: getEnvInt("CONTEXT_BUDGET_CHARS", 12000),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
