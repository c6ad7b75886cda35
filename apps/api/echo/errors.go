package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/activity"
	"github.com/darasa-lms/darasa/core/assignment"
	"github.com/darasa-lms/darasa/core/file"
	"github.com/darasa-lms/darasa/core/forum"
	"github.com/darasa-lms/darasa/core/user"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errTokenInvalid  = echo.NewHTTPError(http.StatusBadRequest, "invalid or expired token")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch cause := errors.Cause(err); cause {
		case user.ErrNotFound, user.ErrProfileNotFound,
			assignment.ErrNotFound, assignment.ErrSubmissionNotFound,
			forum.ErrNotFound, forum.ErrPostNotFound,
			file.ErrNotFound, activity.ErrNotFound:
			code = http.StatusNotFound
			message = cause.Error()
		case user.ErrInvalidCredentials:
			code = http.StatusBadRequest
			message = cause.Error()
		case user.ErrUsernameExists, user.ErrEmailExists:
			// unique violation straight from the store, past the
			// pre-insert uniqueness check
			code = http.StatusConflict
			message = cause.Error()
		default:
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case validator.ValidationErrors:
				fldErrs := make(map[string]string, len(origErr))
				for _, vErr := range origErr {
					fldErrs[vErr.Field()] = vErr.Translate(translator)
				}
				code = http.StatusBadRequest
				message = fldErrs
			case *core.ValidationError:
				code = http.StatusBadRequest
				message = validationErrMessage(origErr)
			case *core.ConflictError:
				code = http.StatusConflict
				if vErr, ok := origErr.Err.(*core.ValidationError); ok {
					message = validationErrMessage(vErr)
				} else {
					message = origErr.Error()
				}
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var usr user.User
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					usr.ID = claims.Subject
					usr.Username = claims.Username
					usr.Email = claims.Email
				}
				logger.Error(msg, errors.Wrap(err, msg), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func validationErrMessage(vErr *core.ValidationError) interface{} {
	if vErr.Fields != nil {
		fldErrs := make(map[string]string, len(vErr.Fields))
		for _, fErr := range vErr.Fields {
			fldErrs[fErr.Field] = fErr.Error
		}
		return fldErrs
	}
	return vErr.Error()
}
