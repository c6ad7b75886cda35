package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	// LateTransitionsTotal counts submissions transitioned to late by the
	// periodic sweep.
	LateTransitionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "late_submission_transitions_total",
			Help: "Total number of submissions transitioned from pending to late",
		},
	)
)

func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			observe := func() {
				apiRequestDuration.WithLabelValues(
					ctx.Path(),
					ctx.Request().Method,
					strconv.Itoa(ctx.Response().Status),
				).Observe(time.Since(start).Seconds())
			}

			err := next(ctx)
			if ctx.Response().Committed {
				observe()
			} else {
				// not committed yet: the HTTP error handler writes the
				// response after this returns
				ctx.Response().After(observe)
			}
			return err
		}
	}
}
