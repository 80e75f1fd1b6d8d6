package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-bale/internal/infrastructure/metrics"
	"github.com/jhoicas/pos-bale/pkg/logger"
)

// RequestLogger registra cada request (debug; warn desde 500) y lo publica en las métricas HTTP
// con la ruta registrada como etiqueta. log y m pueden ser nil.
func RequestLogger(log *logger.Logger, m *metrics.Metrics) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		route := c.Route().Path
		elapsed := time.Since(start)
		m.ObserveHTTP(c.Method(), route, status, elapsed)

		ev := log.Debug()
		if status >= fiber.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("request")
		return err
	}
}
