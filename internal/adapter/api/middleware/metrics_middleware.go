package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"webcarros/internal/infrastructure/metrics"
)

// Metrics records request latency per route template.
func Metrics(m *metrics.MetricsManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.RequestLatency.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).
				Observe(time.Since(start).Seconds())

			return nil
		}
	}
}
