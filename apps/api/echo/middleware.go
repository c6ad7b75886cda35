package echoapi

import (
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
)

// authnMiddleware authenticates requests via the Authorization header.
// The header may carry the raw token or the "Bearer <token>" form.
// A missing header is 401; a present but unparseable/expired token is 400.
func authnMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if header == "" {
				return errUnauthorized
			}

			raw := header
			if strings.HasPrefix(header, "Bearer ") {
				raw = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			}

			claims := new(Claims)
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(conf.SecretKey), nil
			})
			if err != nil || !token.Valid {
				return errTokenInvalid
			}

			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

// roleMiddleware only lets the exact roles given through; an admin gets no
// implicit access to teacher endpoints and vice versa.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}
