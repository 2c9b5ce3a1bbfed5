/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// contextLogger stores a request-scoped logger carrying the request ID in
// the request context, so everything downstream logs with it.
func contextLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			log := clog.FromContext(req.Context()).With("request_id", id)
			c.SetRequest(req.WithContext(clog.WithLogger(req.Context(), log)))
			return next(c)
		}
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogLatency:  true,
		LogURI:      true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log := clog.FromContext(c.Request().Context()).
				With("method", v.Method).
				With("uri", v.URI).
				With("status", v.Status).
				With("latency", v.Latency)
			if v.Error != nil {
				log.With("error", v.Error.Error()).Error("Request failed")
				return nil
			}
			log.Info("Request handled")
			return nil
		},
	})
}

func recoverer() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			clog.FromContext(c.Request().Context()).
				With("stack", string(stack)).
				Errorf("Recovered from panic: %v", err)
			return err
		},
	})
}
