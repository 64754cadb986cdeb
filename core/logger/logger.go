package logger

import (
	"ahb-manager/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new zap logger based on the configuration.
func New(cfg *Config) (*zap.Logger, error) {
	config, err := buildConfig(cfg)
	if err != nil {
		return nil, err
	}
	return config.Build()
}

func buildConfig(cfg *Config) (zap.Config, error) {
	config := zap.NewProductionConfig()
	switch cfg.Level {
	case "debug":
		config = zap.NewDevelopmentConfig()
	case "":
	default:
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return zap.Config{}, err
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}

	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	} else {
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config, nil
}

// WithRayID returns a logger with the ray_id field set from the Fiber context.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if id, ok := c.Locals(rayid.LocalsKey).(string); ok && id != "" {
		return l.With(zap.String("ray_id", id))
	}
	return l
}

// ForScope tags l with a document kind, format version and scope.
// Empty values are left out so MIG and AHB pipelines share one call.
func ForScope(l *zap.Logger, kind, formatVersion, scope string) *zap.Logger {
	fields := make([]zap.Field, 0, 3)
	for _, f := range []struct{ key, value string }{
		{"kind", kind},
		{"format_version", formatVersion},
		{"scope", scope},
	} {
		if f.value != "" {
			fields = append(fields, zap.String(f.key, f.value))
		}
	}
	return l.With(fields...)
}
