package bootstrap

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/tobi-oke/clipchat-backend/internal/prompt"
	"github.com/tobi-oke/clipchat-backend/internal/session"
	"github.com/tobi-oke/clipchat-backend/internal/video"
	"github.com/tobi-oke/clipchat-backend/internal/vision"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvidePrometheusRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func ProvideMetrics(reg *prometheus.Registry) *session.Metrics {
	return session.NewMetrics(reg)
}

func ProvideRegistry(store *video.Store, cfg *Config, logger *slog.Logger) *video.Registry {
	return video.NewRegistry(store, nil, video.Config{
		MaxDurationSeconds: cfg.MaxVideoDurationSeconds,
		MaxSizeBytes:       cfg.MaxVideoSizeBytes,
		MaxFrames:          cfg.MaxFrames,
	}, logger)
}

func ProvideAssembler(cfg *Config) *prompt.Assembler {
	return prompt.NewAssembler(cfg.ContextBudgetChars)
}

func ProvideManager(
	registry *video.Registry,
	assembler *prompt.Assembler,
	model vision.Client,
	store *session.Store,
	metrics *session.Metrics,
	logger *slog.Logger,
) *session.Manager {
	return session.NewManager(registry, assembler, model, store, metrics, logger)
}

func ProvideSessionHandler(manager *session.Manager, logger *slog.Logger) *session.Handler {
	return session.NewHandler(manager, logger.With("handler", "session"))
}

func RegisterRoutes(e *echo.Echo, sessionHandler *session.Handler, reg *prometheus.Registry) {
	api := e.Group("/v1")
	sessionHandler.RegisterRoutes(api.Group("/sessions"))

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvidePrometheusRegistry,
		ProvideMetrics,
		ProvideRegistry,
		ProvideAssembler,
		ProvideManager,
		ProvideSessionHandler,
	),
	fx.Invoke(RegisterRoutes),
)
