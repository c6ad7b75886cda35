package echoapi

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/user"
)

func newTestErrorHandler() echo.HTTPErrorHandler {
	_, translator := core.NewValidator()
	logger := core.NewStdLogger(log.New(io.Discard, "", 0))
	return newAppHTTPErrorHandler(logger, translator, func() {})
}

// A unique violation can come straight from the store when two registrations
// race past the pre-insert uniqueness check; it must still surface as a 409,
// not a server error.
func Test_appHTTPErrorHandler_uniqueViolations(t *testing.T) {
	e := echo.New()
	handler := newTestErrorHandler()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "username taken", err: user.ErrUsernameExists, want: `{"error":"a user with this username already exists"}`},
		{name: "email taken", err: user.ErrEmailExists, want: `{"error":"a user with this email already exists"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", nil)
			rec := httptest.NewRecorder()
			handler(tt.err, e.NewContext(req, rec))

			if rec.Code != http.StatusConflict {
				t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusConflict)
			}
			if body := strings.TrimSpace(rec.Body.String()); body != tt.want {
				t.Errorf("failed! body = %v; want %v", body, tt.want)
			}
		})
	}
}
