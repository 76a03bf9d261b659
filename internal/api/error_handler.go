package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/notekeeper/notes-api/internal/api/handler"
	"github.com/notekeeper/notes-api/internal/core/domain"
)

// reasonStatus fixes the status each violation reason is answered with.
// missing_field shares 409 with duplicate_value and the temporal check answers
// 500; clients that need to tell them apart read the reason property.
var reasonStatus = map[domain.Reason]int{
	domain.ReasonMissingField:            http.StatusConflict,
	domain.ReasonDuplicateValue:          http.StatusConflict,
	domain.ReasonUnresolvedReference:     http.StatusConflict,
	domain.ReasonStillReferenced:         http.StatusConflict,
	domain.ReasonReminderNotAfterCreated: http.StatusInternalServerError,
	domain.ReasonNotFound:                http.StatusNotFound,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps constraint violations and not-found errors to their status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "reason": "<reason>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorBody) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.ErrorBody{Error: fmt.Sprintf("%v", he.Message)}
	}

	var v *domain.Violation
	if errors.As(err, &v) {
		reason := v.Reason()
		code, ok := reasonStatus[reason]
		if !ok {
			code = http.StatusConflict
		}
		if reason == domain.ReasonReminderNotAfterCreated {
			log.Warn().
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("reason", string(reason)).
				Msg(v.Error())
		}
		return code, handler.ErrorBody{Error: v.Error(), Reason: string(reason)}
	}

	if errors.Is(err, domain.ErrNotFound) {
		return http.StatusNotFound, handler.ErrorBody{Error: err.Error(), Reason: string(domain.ReasonNotFound)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.ErrorBody{Error: "internal server error"}
}
