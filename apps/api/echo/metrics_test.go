package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/darasa-lms/darasa/core/user"
)

func Test_metricsMiddleware_statusLabel(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = newTestErrorHandler()
	e.Use(metricsMiddleware())
	e.GET("/boom", func(echo.Context) error { return user.ErrNotFound })
	e.GET("/empty", func(ctx echo.Context) error { return ctx.NoContent(http.StatusNoContent) })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/empty", nil))

	// observations carry the status the client saw
	if apiRequestDuration.DeleteLabelValues("/boom", http.MethodGet, "200") {
		t.Error("failed! error response recorded as 200")
	}
	if !apiRequestDuration.DeleteLabelValues("/boom", http.MethodGet, "404") {
		t.Error("failed! missing 404 observation")
	}
	if !apiRequestDuration.DeleteLabelValues("/empty", http.MethodGet, "204") {
		t.Error("failed! missing 204 observation")
	}
}
