package httpx

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hello-users-api/internal/config"
	"hello-users-api/internal/httpx/kit"
	"hello-users-api/internal/httpx/mw"
	"hello-users-api/internal/logx"
	"hello-users-api/internal/redisx"
)

var httpxLogger = logx.GetScope("httpx")

// RegisterCommonMiddlewares registers request ids, timing headers, a
// structured access log, panic recovery and, when configured, rate limiting.
func RegisterCommonMiddlewares(app *fiber.App, cfg *config.Config, rdb *redisx.Client) {
	app.Use(requestid.New(requestid.Config{
		Header:    kit.HeaderRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(Timing())
	app.Use(AccessLog())
	// Inside AccessLog so a recovered panic is logged with its 500.
	app.Use(recover.New())

	if cfg != nil && cfg.RateLimit.Max > 0 {
		app.Use(mw.RateLimit(rdb, cfg.RateLimit.WindowSec, cfg.RateLimit.Max))
		httpxLogger.Info("rate limit enabled",
			zap.Int("max", cfg.RateLimit.Max),
			zap.Int("window_sec", cfg.RateLimit.WindowSec),
			zap.Bool("redis", rdb != nil),
		)
	}
}

// AccessLog writes one structured line per request. Errors are rendered
// through the app error handler first so the logged status is the one sent.
func AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		latency := time.Since(start)
		httpxLogger.Info("access",
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Int64("latency_ms", latency.Milliseconds()),
			zap.String("ip", c.IP()),
			zap.String("ua", c.Get(fiber.HeaderUserAgent)),
			zap.String("request_id", kit.RequestID(c)),
		)
		return nil
	}
}
