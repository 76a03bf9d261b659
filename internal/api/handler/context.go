package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

// baseURL returns the configured public base, or scheme://host of the request.
func baseURL(c echo.Context, configured string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	return c.Scheme() + "://" + c.Request().Host
}

// pathID reads :id. Anything that is not a positive integer cannot address a
// record, so it is reported as notFound.
func pathID(c echo.Context, notFound error) (int64, error) {
	id, ok := domain.ParseID(c.Param("id"))
	if !ok {
		return 0, notFound
	}
	return id, nil
}

// bind decodes the JSON body. Malformed input is a 400 before any service call.
func bind(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}
