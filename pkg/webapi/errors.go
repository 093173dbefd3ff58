package webapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/teamup-uiuc/teamup/pkg/clog"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"github.com/teamup-uiuc/teamup/pkg/tmerr"
	"github.com/teamup-uiuc/teamup/pkg/webapi/apimiddleware"
)

const LogCtx = "http"

type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// apiError turns an error from the matching service into an *echo.HTTPError whose body
// carries the error kind. Internal errors are logged here and hidden from the client.
func apiError(err error) error {
	if err == nil {
		return nil
	}

	kind := tmerr.KindOf(err)
	if kind == tmerr.KindInternal {
		clog.UsingCtx(LogCtx).Errorf("request failed: %+v", err)
	}

	return echo.NewHTTPError(tmerr.HTTPStatus(kind), ErrorBody{
		Error:   string(kind),
		Message: tmerr.MessageOf(err),
	})
}

func badRequest(format string, args ...interface{}) error {
	return apiError(tmerr.Validation(format, args...))
}

// intParam parses a numeric path parameter.
func intParam(c echo.Context, name string) (int, error) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, badRequest("invalid %s '%s'", name, c.Param(name))
	}

	return value, nil
}

// actingUserID picks the user a request acts for. An id given in the body takes
// precedence over the one resolved by the ActingUser middleware.
func actingUserID(c echo.Context, fromBody int) (int, error) {
	if fromBody != 0 {
		return fromBody, nil
	}

	if user := apimiddleware.UserFromContext(c); user != nil {
		return user.ID, nil
	}

	return 0, apiError(tmerr.New(tmerr.KindValidation, "no acting user, set the %s header", apimiddleware.ActingUserHeader))
}

func statusFilter(c echo.Context) tmmodel.MatchRequestStatus {
	return tmmodel.MatchRequestStatus(c.QueryParam("status"))
}
