package middleware

import (
	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestLogger logs one line per request through logger.  Server errors
// are logged at error level, client errors at warn.
func RequestLogger(logger hclog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,

		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			args := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "ip", v.RemoteIP}
			if v.Error != nil {
				args = append(args, "error", v.Error)
			}
			switch {
			case v.Status >= 500:
				logger.Error("request", args...)
			case v.Status >= 400:
				logger.Warn("request", args...)
			default:
				logger.Info("request", args...)
			}
			return nil
		},
	})
}
