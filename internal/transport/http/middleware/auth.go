package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/farmconnect/harvest/internal/auth"
	"github.com/farmconnect/harvest/internal/entity"
	"github.com/farmconnect/harvest/internal/presentation/http/response"
	"github.com/farmconnect/harvest/pkg/errorbank"
)

const identityKey = "identity"

// Authenticate verifies the bearer token and attaches the caller identity to
// the request context.
func Authenticate(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return response.New(c).WithError(errorbank.Unauthorized("missing authorization token")).Build()
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
			if token == "" {
				return response.New(c).WithError(errorbank.Unauthorized("missing authorization token")).Build()
			}

			identity, err := tokens.Verify(token)
			if err != nil {
				return response.New(c).WithError(errorbank.Unauthorized("invalid or expired token", errorbank.WithCause(err))).Build()
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// RequireRoles rejects callers whose role is not in the allowed set. Must
// run after Authenticate.
func RequireRoles(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return response.New(c).WithError(errorbank.Unauthorized("missing authorization token")).Build()
			}
			for _, role := range roles {
				if identity.Role == role {
					return next(c)
				}
			}
			return response.New(c).WithError(errorbank.Forbidden("insufficient role for this operation")).Build()
		}
	}
}

// IdentityFrom extracts the authenticated caller from the request context.
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	identity, ok := c.Get(identityKey).(auth.Identity)
	return identity, ok
}
