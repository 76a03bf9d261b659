package domain

import "time"

// ResourceNote is the collection name notes are addressed under.
const ResourceNote = "note"

// NoteID identifies a stored note. Ids are assigned on creation and are never reused.
type NoteID int64

// Note is a titled entry owned by the user referenced in CreatedBy.
type Note struct {
	ID        NoteID
	Title     string
	Body      *string    // optional
	Category  *int64     // optional
	Created   time.Time
	Reminder  *time.Time // optional, strictly later than Created when present
	CreatedBy UserID
}

// Clone returns a deep copy so callers never share optional-field pointers with a store.
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	if n.Body != nil {
		body := *n.Body
		c.Body = &body
	}
	if n.Category != nil {
		category := *n.Category
		c.Category = &category
	}
	if n.Reminder != nil {
		reminder := *n.Reminder
		c.Reminder = &reminder
	}
	return &c
}

// ReminderAfterCreated reports whether the note's reminder, if any, falls strictly after Created.
func (n *Note) ReminderAfterCreated() bool {
	return n.Reminder == nil || n.Reminder.After(n.Created)
}
