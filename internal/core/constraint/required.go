package constraint

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

// requiredChecker wraps go-playground/validator for the presence step.
// Only the `required` tag is expected on candidate structs.
type requiredChecker struct {
	v *validator.Validate
}

func newRequiredChecker() *requiredChecker {
	return &requiredChecker{v: validator.New()}
}

// check returns a Violation naming every absent required field, or nil.
func (rc *requiredChecker) check(resource string, candidate any) error {
	err := rc.v.Struct(candidate)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, wireName(fe.Field()))
	}
	return &domain.Violation{
		Outcome:  domain.Invalid,
		Resource: resource,
		Field:    strings.Join(fields, ", "),
		Err:      domain.ErrMissingField,
	}
}

// wireName turns a Go field name into the JSON property clients send: CreatedBy -> createdBy.
func wireName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
