package postgres

import (
	"time"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

// userModel maps to the users table. Ids are assigned from the sequence, not
// by a serial column, so they match what the other backends hand out.
type userModel struct {
	ID       int64   `gorm:"primaryKey;autoIncrement:false"`
	Name     string  `gorm:"not null;uniqueIndex"`
	Password string  `gorm:"not null"`
	Email    *string
}

func (userModel) TableName() string { return "users" }

func toUserModel(u *domain.User) userModel {
	return userModel{ID: int64(u.ID), Name: u.Name, Password: u.Password, Email: u.Email}
}

func (m *userModel) toDomain() *domain.User {
	return &domain.User{ID: domain.UserID(m.ID), Name: m.Name, Password: m.Password, Email: m.Email}
}

type noteModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false"`
	Title       string `gorm:"not null;uniqueIndex"`
	Body        *string
	Category    *int64
	Created     time.Time `gorm:"not null"`
	Reminder    *time.Time
	CreatedByID int64     `gorm:"not null;index"`
	CreatedBy   userModel `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
}

func (noteModel) TableName() string { return "notes" }

func toNoteModel(n *domain.Note) noteModel {
	return noteModel{
		ID:          int64(n.ID),
		Title:       n.Title,
		Body:        n.Body,
		Category:    n.Category,
		Created:     n.Created,
		Reminder:    n.Reminder,
		CreatedByID: int64(n.CreatedBy),
	}
}

func (m *noteModel) toDomain() *domain.Note {
	n := &domain.Note{
		ID:        domain.NoteID(m.ID),
		Title:     m.Title,
		Body:      m.Body,
		Category:  m.Category,
		Created:   m.Created.UTC(),
		CreatedBy: domain.UserID(m.CreatedByID),
	}
	if m.Reminder != nil {
		r := m.Reminder.UTC()
		n.Reminder = &r
	}
	return n
}
