package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/client"
)

const usernameKey = "username"

// Identity resolves the acting user and stores it in the context for
// Username.  The X-User-Name header is always honoured.  When jwtSecret is
// set a bearer token is accepted too and wins over the header; a bearer
// token that fails validation is rejected with 401.  Requests without
// either pass through anonymously and handlers decide whether that is an
// error.
func Identity(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if jwtSecret != "" {
				name, present, err := bearerUsername(req.Header.Get("Authorization"), jwtSecret)
				if err != nil {
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
				}
				if present {
					c.Set(usernameKey, name)
					return next(c)
				}
			}
			if name := strings.TrimSpace(req.Header.Get(client.UserHeader)); name != "" {
				c.Set(usernameKey, name)
			}
			return next(c)
		}
	}
}

// Username returns the user resolved by Identity, or "" for anonymous
// requests.
func Username(c echo.Context) string {
	if v, ok := c.Get(usernameKey).(string); ok {
		return v
	}
	return ""
}
