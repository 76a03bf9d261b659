package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
	"github.com/notekeeper/notes-api/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Recording publisher
// ---------------------------------------------------------------------------

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.RepositoryEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e ports.RepositoryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, string(e.Action)+" "+e.Key())
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestServices(t *testing.T) (*Services, *recordingPublisher) {
	t.Helper()
	store := memory.NewStore(nil)
	pub := &recordingPublisher{}
	return New(Repositories{Users: store.Users, Notes: store.Notes}, pub, zerolog.Nop()), pub
}

func ptr[T any](v T) *T { return &v }

func createUser(t *testing.T, s *Services, name string) *domain.User {
	t.Helper()
	u, err := s.Users.Create(context.Background(), ports.UserInput{Name: name, Password: "pw"})
	require.NoError(t, err)
	return u
}

func noteFor(u *domain.User, title string) ports.NoteInput {
	return ports.NoteInput{
		Title:     title,
		Created:   ptr(t0),
		CreatedBy: domain.Address("http://localhost:9999", domain.ResourceUser, int64(u.ID)),
	}
}

func outcomeOf(t *testing.T, err error) domain.Outcome {
	t.Helper()
	o, ok := domain.OutcomeOf(err)
	require.True(t, ok, "unclassified error: %v", err)
	return o
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestUserService_CreateDuplicateName(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()

	u, err := s.Users.Create(ctx, ports.UserInput{Name: "ian", Password: "<hash>", Email: ptr("ian@x.com")})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = s.Users.Create(ctx, ports.UserInput{Name: "ian", Password: "other"})
	assert.Equal(t, domain.Conflict, outcomeOf(t, err))
	assert.ErrorIs(t, err, domain.ErrDuplicateValue)
}

func TestUserService_CreateMissingPassword(t *testing.T) {
	s, _ := newTestServices(t)
	_, err := s.Users.Create(context.Background(), ports.UserInput{Name: "Bar"})
	assert.Equal(t, domain.Invalid, outcomeOf(t, err))
	assert.ErrorIs(t, err, domain.ErrMissingField)

	users, err := s.Users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users, "rejected create must not write")
}

func TestUserService_GetMissing(t *testing.T) {
	s, _ := newTestServices(t)
	_, err := s.Users.Get(context.Background(), 42)
	assert.Equal(t, domain.NotFound, outcomeOf(t, err))
}

func TestUserService_UpdateAndPatch(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, s, "ian")
	createUser(t, s, "bob")

	updated, err := s.Users.Update(ctx, u.ID, ports.UserInput{Name: "ian", Password: "rotated"})
	require.NoError(t, err)
	assert.Equal(t, "rotated", updated.Password)

	_, err = s.Users.Update(ctx, u.ID, ports.UserInput{Name: "bob", Password: "pw"})
	assert.Equal(t, domain.Conflict, outcomeOf(t, err))

	_, err = s.Users.Update(ctx, 999, ports.UserInput{Name: "zed", Password: "pw"})
	assert.Equal(t, domain.NotFound, outcomeOf(t, err))

	patched, err := s.Users.Patch(ctx, u.ID, ports.UserPatch{Email: ptr("ian@x.com")})
	require.NoError(t, err)
	assert.Equal(t, "ian", patched.Name)
	assert.Equal(t, "rotated", patched.Password)
	require.NotNil(t, patched.Email)
	assert.Equal(t, "ian@x.com", *patched.Email)

	_, err = s.Users.Patch(ctx, u.ID, ports.UserPatch{Name: ptr("")})
	assert.Equal(t, domain.Invalid, outcomeOf(t, err))
}

func TestUserService_DeleteReferentialProtection(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, s, "ian")

	n, err := s.Notes.Create(ctx, noteFor(u, "T"))
	require.NoError(t, err)

	err = s.Users.Delete(ctx, u.ID)
	assert.Equal(t, domain.ReferentialBlock, outcomeOf(t, err))
	assert.ErrorIs(t, err, domain.ErrStillReferenced)

	require.NoError(t, s.Notes.Delete(ctx, n.ID))
	require.NoError(t, s.Users.Delete(ctx, u.ID))

	err = s.Users.Delete(ctx, u.ID)
	assert.Equal(t, domain.NotFound, outcomeOf(t, err))
}

// ---------------------------------------------------------------------------
// Notes
// ---------------------------------------------------------------------------

func TestNoteService_CreateAndCreator(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, s, "ian")

	in := noteFor(u, "T")
	in.Body = ptr("body")
	in.Category = ptr(int64(3))
	in.Reminder = ptr(t0.Add(time.Hour))

	n, err := s.Notes.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, u.ID, n.CreatedBy)
	assert.True(t, n.Created.Equal(t0))

	creator, err := s.Notes.Creator(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "ian", creator.Name)

	_, err = s.Notes.Creator(ctx, 999)
	assert.Equal(t, domain.NotFound, outcomeOf(t, err))
}

func TestNoteService_ReminderBeforeCreated(t *testing.T) {
	s, _ := newTestServices(t)
	u := createUser(t, s, "ian")

	in := noteFor(u, "T")
	in.Reminder = ptr(t0.Add(-time.Hour))
	_, err := s.Notes.Create(context.Background(), in)
	assert.Equal(t, domain.Invalid, outcomeOf(t, err))
	assert.ErrorIs(t, err, domain.ErrReminderNotAfterCreated)
}

func TestNoteService_UnresolvedCreator(t *testing.T) {
	s, _ := newTestServices(t)
	in := ports.NoteInput{Title: "T", Created: ptr(t0), CreatedBy: "http://localhost:9999/user/12345"}
	_, err := s.Notes.Create(context.Background(), in)
	assert.Equal(t, domain.ReferentialBlock, outcomeOf(t, err))
}

func TestNoteService_PatchRevalidatesMergedNote(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, s, "ian")
	n, err := s.Notes.Create(ctx, noteFor(u, "T"))
	require.NoError(t, err)

	patched, err := s.Notes.Patch(ctx, n.ID, ports.NotePatch{Body: ptr("new body")})
	require.NoError(t, err)
	assert.Equal(t, "T", patched.Title)
	assert.Equal(t, "new body", *patched.Body)
	assert.Equal(t, u.ID, patched.CreatedBy)

	_, err = s.Notes.Patch(ctx, n.ID, ports.NotePatch{Reminder: ptr(t0.Add(-time.Minute))})
	assert.Equal(t, domain.Invalid, outcomeOf(t, err))

	stored, err := s.Notes.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Reminder, "rejected patch must not write")
}

func TestNoteService_UpdateClearsOptionalFields(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, s, "ian")
	in := noteFor(u, "T")
	in.Body = ptr("body")
	n, err := s.Notes.Create(ctx, in)
	require.NoError(t, err)

	updated, err := s.Notes.Update(ctx, n.ID, noteFor(u, "T2"))
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
	assert.Nil(t, updated.Body)

	_, err = s.Notes.Update(ctx, 999, noteFor(u, "T3"))
	assert.Equal(t, domain.NotFound, outcomeOf(t, err))
}

func TestNoteService_ListThenDeleteEach(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, s, "ian")
	for _, title := range []string{"a", "b", "c"} {
		_, err := s.Notes.Create(ctx, noteFor(u, title))
		require.NoError(t, err)
	}

	notes, err := s.Notes.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)

	for _, n := range notes {
		require.NoError(t, s.Notes.Delete(ctx, n.ID))
		assert.Equal(t, domain.NotFound, outcomeOf(t, s.Notes.Delete(ctx, n.ID)))
	}

	notes, err = s.Notes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

// ---------------------------------------------------------------------------
// Concurrency, ids, events, reset
// ---------------------------------------------------------------------------

func TestConcurrentDuplicateCreates(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()
	const n = 50

	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Users.Create(ctx, ports.UserInput{Name: "same", Password: "pw"}); err == nil {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	users, err := s.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestConcurrentUserDeleteAndNoteCreate(t *testing.T) {
	ctx := context.Background()
	for range 20 {
		s, _ := newTestServices(t)
		u := createUser(t, s, "ian")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Users.Delete(ctx, u.ID)
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Notes.Create(ctx, noteFor(u, "T"))
		}()
		wg.Wait()

		notes, err := s.Notes.List(ctx)
		require.NoError(t, err)
		for _, n := range notes {
			_, err := s.Users.Get(ctx, n.CreatedBy)
			assert.NoError(t, err, "note %d points at a missing user", n.ID)
		}
	}
}

func TestIdsAreNeverReused(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()

	var last domain.UserID
	for range 5 {
		u := createUser(t, s, "cycle")
		assert.Greater(t, int64(u.ID), int64(last))
		last = u.ID
		require.NoError(t, s.Users.Delete(ctx, u.ID))
	}
}

func TestEventsArePublishedAfterCommit(t *testing.T) {
	s, pub := newTestServices(t)
	ctx := context.Background()

	u := createUser(t, s, "ian")
	_, err := s.Users.Create(ctx, ports.UserInput{Name: "ian", Password: "pw"})
	require.Error(t, err)
	n, err := s.Notes.Create(ctx, noteFor(u, "T"))
	require.NoError(t, err)
	_, err = s.Notes.Patch(ctx, n.ID, ports.NotePatch{Body: ptr("b")})
	require.NoError(t, err)
	require.NoError(t, s.Notes.Delete(ctx, n.ID))

	assert.Equal(t, []string{
		"created user/1",
		"created note/1",
		"updated note/1",
		"deleted note/1",
	}, pub.keys())
}

// bodyRecorder captures the stored body of a note at the moment each update
// event is published.
type bodyRecorder struct {
	notes  ports.NoteRepository
	mu     sync.Mutex
	bodies []string
}

func (r *bodyRecorder) Publish(ctx context.Context, e ports.RepositoryEvent) error {
	if e.Resource != domain.ResourceNote || e.Action != ports.ActionUpdated {
		return nil
	}
	n, err := r.notes.Get(ctx, domain.NoteID(e.ID))
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodies = append(r.bodies, *n.Body)
	return nil
}

func TestEventsFollowCommitOrderPerRecord(t *testing.T) {
	store := memory.NewStore(nil)
	rec := &bodyRecorder{notes: store.Notes}
	s := New(Repositories{Users: store.Users, Notes: store.Notes}, rec, zerolog.Nop())
	ctx := context.Background()

	u := createUser(t, s, "ian")
	n, err := s.Notes.Create(ctx, noteFor(u, "T"))
	require.NoError(t, err)

	const writers = 32
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Notes.Patch(ctx, n.ID, ports.NotePatch{Body: ptr(fmt.Sprintf("v%d", i))})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := s.Notes.Get(ctx, n.ID)
	require.NoError(t, err)

	require.Len(t, rec.bodies, writers)
	seen := map[string]bool{}
	for _, b := range rec.bodies {
		assert.False(t, seen[b], "event for %s delivered after a later commit", b)
		seen[b] = true
	}
	assert.Equal(t, *stored.Body, rec.bodies[writers-1])
}

func TestServices_Reset(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, s, "ian")
	_, err := s.Notes.Create(ctx, noteFor(u, "T"))
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	users, err := s.Users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	notes, err := s.Notes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)

	again := createUser(t, s, "ian")
	assert.Greater(t, int64(again.ID), int64(u.ID))
}
