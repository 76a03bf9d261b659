package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/notekeeper/notes-api/internal/api/metrics"
	"github.com/notekeeper/notes-api/internal/core/domain"
)

// ConstraintOutcomes counts the decision reached for every write request.
// Reads are not counted.
func ConstraintOutcomes() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return err
			}
			outcome, reason := classify(err)
			metrics.ConstraintOutcomesTotal.
				WithLabelValues(resourceOf(c.Path()), method, outcome, reason).
				Inc()
			return err
		}
	}
}

func classify(err error) (outcome, reason string) {
	var v *domain.Violation
	if errors.As(err, &v) {
		return v.Outcome.String(), string(v.Reason())
	}
	if o, ok := domain.OutcomeOf(err); ok {
		if o == domain.NotFound {
			return o.String(), string(domain.ReasonNotFound)
		}
		return o.String(), ""
	}
	return "error", ""
}

// resourceOf returns the first segment of a route pattern: /note/:id -> note.
func resourceOf(route string) string {
	route = strings.TrimPrefix(route, "/")
	if i := strings.IndexByte(route, '/'); i >= 0 {
		return route[:i]
	}
	return route
}
