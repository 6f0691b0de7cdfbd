package http

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/sejin/dispatch-platform/internal/api/response"
	"github.com/sejin/dispatch-platform/internal/config"
	"github.com/sejin/dispatch-platform/internal/observability"
	apperrors "github.com/sejin/dispatch-platform/pkg/util"
)

// ErrorHandler is the single terminal point where any failure raised during
// request handling becomes an error envelope. Internal causes are written
// to the operator log, never to the client.
func ErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := apperrors.ToAppError(err)
		if metrics != nil {
			metrics.RecordError(c.Path(), c.Method(), appErr.Code)
		}
		if appErr.HTTPStatus >= 500 {
			logger.Error("request failed",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.Error(appErr),
			)
		}
		return response.Error(c, appErr)
	}
}

// RegisterMiddlewares attaches global middlewares: panic recovery, CORS and
// request logging. Order matters: recovery wraps everything downstream.
func RegisterMiddlewares(app *fiber.App, cfg config.AppConfig, logger *zap.Logger, metrics *observability.Metrics) {
	app.Use(recoverMiddleware(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(observability.RequestLogger(logger, metrics))
}

// recoverMiddleware converts any panic below it into an unhandled-fault
// error for the terminal ErrorHandler.
func recoverMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
				err = apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
			}
		}()
		return c.Next()
	}
}
