package bootstrap

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/tobi-oke/clipchat-backend/internal/vision"
)

func ProvideRedisClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func ProvideVisionClient(cfg *Config, segments vision.SegmentSource) vision.Client {
	return vision.NewHTTPClient(vision.Config{
		BaseURL: cfg.ModelBaseURL,
		Model:   cfg.ModelName,
		Timeout: cfg.ModelTimeout,
	}, segments)
}

var InfrastructureModule = fx.Options(
	fx.Provide(
		ProvideRedisClient,
		ProvideVisionClient,
	),
)
