package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

var (
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	ErrNoteNotFound = fmt.Errorf("note %w", ErrNotFound)
)

// Reason sentinels carried by a Violation.
var (
	ErrMissingField            = errors.New("required field missing")
	ErrDuplicateValue          = errors.New("value already taken")
	ErrUnresolvedReference     = errors.New("reference does not resolve")
	ErrStillReferenced         = errors.New("still referenced")
	ErrReminderNotAfterCreated = errors.New("reminder must be later than created")
)

// Outcome classifies a constraint decision.
type Outcome int

const (
	Accepted Outcome = iota
	Conflict
	NotFound
	Invalid
	ReferentialBlock
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	case Invalid:
		return "invalid"
	case ReferentialBlock:
		return "referential_block"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Reason is the machine-readable cause of a violation. Two violations can share an
// Outcome (or an HTTP status) and still be told apart by Reason.
type Reason string

const (
	ReasonMissingField            Reason = "missing_field"
	ReasonDuplicateValue          Reason = "duplicate_value"
	ReasonUnresolvedReference     Reason = "unresolved_reference"
	ReasonStillReferenced         Reason = "still_referenced"
	ReasonReminderNotAfterCreated Reason = "reminder_not_after_created"
	ReasonNotFound                Reason = "not_found"
)

// Violation is a rejected mutation. It unwraps to one of the reason sentinels above,
// or to ErrUserNotFound / ErrNoteNotFound for NotFound.
type Violation struct {
	Outcome  Outcome
	Resource string
	Field    string
	Err      error
}

func (v *Violation) Error() string {
	if v.Field == "" {
		return fmt.Sprintf("%s: %v", v.Resource, v.Err)
	}
	return fmt.Sprintf("%s: %s: %v", v.Resource, v.Field, v.Err)
}

func (v *Violation) Unwrap() error { return v.Err }

// Reason maps the wrapped sentinel to its Reason.
func (v *Violation) Reason() Reason {
	switch {
	case errors.Is(v.Err, ErrMissingField):
		return ReasonMissingField
	case errors.Is(v.Err, ErrDuplicateValue):
		return ReasonDuplicateValue
	case errors.Is(v.Err, ErrUnresolvedReference):
		return ReasonUnresolvedReference
	case errors.Is(v.Err, ErrStillReferenced):
		return ReasonStillReferenced
	case errors.Is(v.Err, ErrReminderNotAfterCreated):
		return ReasonReminderNotAfterCreated
	case errors.Is(v.Err, ErrNotFound):
		return ReasonNotFound
	default:
		return ""
	}
}

// OutcomeOf classifies any error returned by the service layer. nil is Accepted;
// errors that are neither a Violation nor a not-found report ok=false.
func OutcomeOf(err error) (outcome Outcome, ok bool) {
	if err == nil {
		return Accepted, true
	}
	var v *Violation
	if errors.As(err, &v) {
		return v.Outcome, true
	}
	if errors.Is(err, ErrNotFound) {
		return NotFound, true
	}
	return 0, false
}
