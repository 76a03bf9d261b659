package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		resource string
		outcome  domain.Outcome
		reason   error
	}{
		{"duplicate name", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), domain.ResourceUser, domain.Conflict, domain.ErrDuplicateValue},
		{"user still referenced", gorm.ErrForeignKeyViolated, domain.ResourceUser, domain.ReferentialBlock, domain.ErrStillReferenced},
		{"creator missing", gorm.ErrForeignKeyViolated, domain.ResourceNote, domain.ReferentialBlock, domain.ErrUnresolvedReference},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := translate(tc.err, tc.resource, "name")
			var v *domain.Violation
			if !errors.As(err, &v) {
				t.Fatalf("expected violation, got %v", err)
			}
			if v.Outcome != tc.outcome || !errors.Is(err, tc.reason) {
				t.Fatalf("got %v (%v)", v.Outcome, err)
			}
		})
	}

	other := errors.New("connection reset")
	if got := translate(other, domain.ResourceUser, "name"); got != other {
		t.Fatalf("unrelated errors must pass through, got %v", got)
	}
}

func TestNoteModel_RoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	reminder := created.Add(time.Hour)
	n := &domain.Note{ID: 3, Title: "T", Created: created, Reminder: &reminder, CreatedBy: 5}

	m := toNoteModel(n)
	if m.CreatedByID != 5 {
		t.Fatalf("creator not mapped: %+v", m)
	}
	back := m.toDomain()
	if back.Created.Location() != time.UTC || !back.Created.Equal(created) {
		t.Fatalf("created not normalised: %v", back.Created)
	}
	if back.Reminder == nil || !back.Reminder.Equal(reminder) || back.CreatedBy != 5 {
		t.Fatalf("unexpected note: %+v", back)
	}
}

func TestSequenceName(t *testing.T) {
	if got := sequenceName(domain.ResourceNote); got != "note_id_seq" {
		t.Fatalf("got %q", got)
	}
}
