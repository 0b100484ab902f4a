package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-api/internal/platform/auth"
)

// Logger emits one structured line per request. Because every clinic route
// is role-gated, the line carries the acting staff member and their roles
// alongside the usual request fields.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			ctx := c.Request().Context()
			if actor := auth.UserIDFromContext(ctx); actor != "" {
				evt = evt.Str("actor", actor)
			}
			if roles := auth.RolesFromContext(ctx); len(roles) > 0 {
				evt = evt.Str("roles", strings.Join(roles, ","))
			}

			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return err
		}
	}
}
