package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/file"
	"github.com/darasa-lms/darasa/core/user"
)

type fileApi struct {
	svc      file.Service
	validate *validator.Validate
}

func registerFileAPI(g *echo.Group, authn echo.MiddlewareFunc, svc file.Service, validate *validator.Validate) {
	api := fileApi{svc: svc, validate: validate}

	fg := g.Group("/files", authn)
	fg.POST("", api.create)
	fg.GET("", api.query)
	fg.GET("/:id", api.retrieve)
	fg.DELETE("/:id", api.destroy, roleMiddleware(user.RoleAdmin))
}

// Handlers

func (api *fileApi) create(ctx echo.Context) error {
	var data file.NewFile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFile")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	f, err := api.svc.Create(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "creating file")
	}
	return ctx.JSON(http.StatusCreated, f)
}

func (api *fileApi) query(ctx echo.Context) error {
	files, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying files")
	}
	if files == nil {
		files = []file.File{}
	}
	return ctx.JSON(http.StatusOK, files)
}

func (api *fileApi) retrieve(ctx echo.Context) error {
	f, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding file by ID")
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *fileApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting file")
	}
	return ctx.NoContent(http.StatusNoContent)
}
