package bootstrap

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/tobi-oke/clipchat-backend/internal/session"
	"github.com/tobi-oke/clipchat-backend/internal/video"
	"github.com/tobi-oke/clipchat-backend/internal/vision"
)

func ProvideVideoStore(redisClient *redis.Client, cfg *Config) *video.Store {
	return video.NewStore(redisClient, cfg.VideoTTL)
}

func ProvideSegmentSource(store *video.Store) vision.SegmentSource {
	return store
}

func ProvideSessionStore(redisClient *redis.Client) *session.Store {
	return session.NewStore(redisClient)
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideVideoStore,
		ProvideSegmentSource,
		ProvideSessionStore,
	),
)
