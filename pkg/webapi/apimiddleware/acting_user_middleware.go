package apimiddleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/stor"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
)

const (
	ActingUserHeader = "X-User-ID"
	ActingUserQuery  = "user_id"

	// UserKey is the echo context key the resolved *tmmodel.User is stored under.
	UserKey = "user"
)

type GetUserByIDFN func(int) (*tmmodel.User, error)

type ActingUserConfig struct {
	Skipper     middleware.Skipper
	GetUserByID GetUserByIDFN

	// Required rejects requests that name no acting user. When false such requests
	// pass through without a user in the context.
	Required bool
}

// ActingUser resolves the user a request acts on behalf of from the X-User-ID header
// or the user_id query parameter. Identity is asserted by the caller; authentication
// happens in front of this service.
func ActingUser(config ActingUserConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = middleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			value := userIDFromRequest(c)
			if value == "" {
				if config.Required {
					return echo.NewHTTPError(http.StatusBadRequest,
						fmt.Sprintf("no acting user, set the %s header or %s query param", ActingUserHeader, ActingUserQuery))
				}
				return next(c)
			}

			userID, err := strconv.Atoi(value)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid acting user id '%s'", value))
			}

			user, err := config.GetUserByID(userID)
			switch {
			case stor.IsNotFound(err):
				return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("user %d not found", userID))
			case err != nil:
				return err
			case user == nil:
				return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("user %d not found", userID))
			default:
				c.Set(UserKey, user)
				return next(c)
			}
		}
	}
}

// UserFromContext returns the acting user set by ActingUser, or nil.
func UserFromContext(c echo.Context) *tmmodel.User {
	user, _ := c.Get(UserKey).(*tmmodel.User)
	return user
}

func userIDFromRequest(c echo.Context) string {
	if value := c.Request().Header.Get(ActingUserHeader); value != "" {
		return value
	}

	return c.QueryParam(ActingUserQuery)
}
