package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const claimsContextKey = "auth/claims"

// Middleware validates the Bearer token and stores the claims in the echo
// context. Requests without a valid token get 401.
func Middleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}
			claims, err := Authenticate(token, []byte(secret))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired access token")
			}
			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// GetClaims returns the authenticated claims, or nil on unauthenticated
// routes.
func GetClaims(c echo.Context) *ClaimsMessage {
	claims, _ := c.Get(claimsContextKey).(*ClaimsMessage)
	return claims
}

// GetUserID returns the authenticated user's ID.
func GetUserID(c echo.Context) int32 {
	claims := GetClaims(c)
	if claims == nil {
		return 0
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 32)
	if err != nil {
		return 0
	}
	return int32(id)
}

// GetBusinessID returns the authenticated tenant. Every store read and write
// in the handlers is scoped by this value.
func GetBusinessID(c echo.Context) int32 {
	claims := GetClaims(c)
	if claims == nil {
		return 0
	}
	return claims.BusinessID
}
