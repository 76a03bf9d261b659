package handler

import (
	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

// --- Request → Service input ---

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func toUserInput(req userRequest) ports.UserInput {
	return ports.UserInput{
		Name:     deref(req.Name),
		Password: deref(req.Password),
		Email:    req.Email,
	}
}

func toUserPatch(req userRequest) ports.UserPatch {
	return ports.UserPatch{Name: req.Name, Password: req.Password, Email: req.Email}
}

func toNoteInput(req noteRequest) ports.NoteInput {
	return ports.NoteInput{
		Title:     deref(req.Title),
		Body:      req.Body,
		Category:  req.Category,
		Created:   req.Created.ptr(),
		Reminder:  req.Reminder.ptr(),
		CreatedBy: deref(req.CreatedBy),
	}
}

func toNotePatch(req noteRequest) ports.NotePatch {
	return ports.NotePatch{
		Title:     req.Title,
		Body:      req.Body,
		Category:  req.Category,
		Created:   req.Created.ptr(),
		Reminder:  req.Reminder.ptr(),
		CreatedBy: req.CreatedBy,
	}
}

// --- Domain → HTTP representation ---

func toUserResponse(base string, u *domain.User) userResponse {
	self := domain.Address(base, domain.ResourceUser, int64(u.ID))
	return userResponse{
		ID:       int64(u.ID),
		Name:     u.Name,
		Password: u.Password,
		Email:    u.Email,
		Links: links{
			"self": {Href: self},
			"user": {Href: self},
		},
	}
}

func toNoteResponse(base string, n *domain.Note) noteResponse {
	self := domain.Address(base, domain.ResourceNote, int64(n.ID))
	return noteResponse{
		ID:        int64(n.ID),
		Title:     n.Title,
		Body:      n.Body,
		Category:  n.Category,
		Created:   Timestamp{Time: n.Created},
		Reminder:  timestampOf(n.Reminder),
		CreatedBy: domain.Address(base, domain.ResourceUser, int64(n.CreatedBy)),
		Links: links{
			"self":      {Href: self},
			"note":      {Href: self},
			"createdBy": {Href: self + "/createdBy"},
		},
	}
}

func toUserCollection(base string, users []*domain.User) userCollectionResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(base, u))
	}
	return userCollectionResponse{
		Embedded: userEmbedded{Users: out},
		Links:    links{"self": {Href: domain.CollectionAddress(base, domain.ResourceUser)}},
	}
}

func toNoteCollection(base string, notes []*domain.Note) noteCollectionResponse {
	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(base, n))
	}
	return noteCollectionResponse{
		Embedded: noteEmbedded{Notes: out},
		Links:    links{"self": {Href: domain.CollectionAddress(base, domain.ResourceNote)}},
	}
}
