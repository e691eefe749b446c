package middleware

import (
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/sirupsen/logrus"
)

// RequestLogger writes one structured line per request.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
    return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
        LogMethod:   true,
        LogURI:      true,
        LogStatus:   true,
        LogLatency:  true,
        LogRemoteIP: true,
        LogError:    true,
        HandleError: true,
        LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
            entry := log.WithFields(logrus.Fields{
                "method":  v.Method,
                "uri":     v.URI,
                "status":  v.Status,
                "latency": v.Latency.String(),
                "ip":      v.RemoteIP,
                "user":    userID(c),
            })
            switch {
            case v.Error != nil:
                entry.WithError(v.Error).Error("request failed")
            case v.Status >= 500:
                entry.Error("request")
            case v.Status >= 400:
                entry.Warn("request")
            default:
                entry.Info("request")
            }
            return nil
        },
    })
}
