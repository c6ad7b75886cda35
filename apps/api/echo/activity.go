package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/activity"
	"github.com/darasa-lms/darasa/core/user"
)

type activityApi struct {
	svc      activity.Service
	validate *validator.Validate
}

func registerActivityAPI(g *echo.Group, authn echo.MiddlewareFunc, svc activity.Service, validate *validator.Validate) {
	api := activityApi{svc: svc, validate: validate}

	adminOnly := roleMiddleware(user.RoleAdmin)

	ag := g.Group("/activities", authn)
	ag.POST("", api.record)
	ag.GET("", api.query, adminOnly)
	ag.GET("/users/:id", api.queryByUser, adminOnly)
}

// Handlers

func (api *activityApi) record(ctx echo.Context) error {
	var data activity.NewLog
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLog")
	}

	// default to the authenticated user
	if data.UserID == "" {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return err
		}
		data.UserID = claims.Subject
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	l, err := api.svc.Record(ctx.Request().Context(), data, ctx.RealIP(), ctx.Request().UserAgent())
	if err != nil {
		return errors.Wrap(err, "recording activity")
	}
	return ctx.JSON(http.StatusCreated, l)
}

func (api *activityApi) query(ctx echo.Context) error {
	logs, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying activities")
	}
	if logs == nil {
		logs = []activity.Log{}
	}
	return ctx.JSON(http.StatusOK, logs)
}

func (api *activityApi) queryByUser(ctx echo.Context) error {
	var since time.Time
	if raw := ctx.QueryParam("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "since must be RFC3339")
		}
		since = parsed
	}

	logs, err := api.svc.QueryByUser(ctx.Request().Context(), ctx.Param("id"), since)
	if err != nil {
		return errors.Wrap(err, "querying user activities")
	}
	if logs == nil {
		logs = []activity.Log{}
	}
	return ctx.JSON(http.StatusOK, logs)
}
