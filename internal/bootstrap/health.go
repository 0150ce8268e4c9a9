package bootstrap

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/tobi-oke/clipchat-backend/internal/health"
	"github.com/tobi-oke/clipchat-backend/internal/session"
	"github.com/tobi-oke/clipchat-backend/internal/vision"
)

const version = "1.0.0"

func ProvideHealthHandler(
	cfg *Config,
	redisClient *redis.Client,
	model vision.Client,
	manager *session.Manager,
) *health.Handler {
	return health.NewHandler(redisClient, model, cfg.ModelName, manager, version)
}

func RegisterHealthRoutes(e *echo.Echo, h *health.Handler) {
	h.RegisterRoutes(e)
}

var HealthModule = fx.Options(
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterHealthRoutes),
)
