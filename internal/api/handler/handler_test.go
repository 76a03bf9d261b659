package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

type stubUserService struct {
	ports.UserService
	createFn func(ctx context.Context, in ports.UserInput) (*domain.User, error)
	getFn    func(ctx context.Context, id domain.UserID) (*domain.User, error)
	patchFn  func(ctx context.Context, id domain.UserID, p ports.UserPatch) (*domain.User, error)
}

func (s *stubUserService) Create(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) Patch(ctx context.Context, id domain.UserID, p ports.UserPatch) (*domain.User, error) {
	return s.patchFn(ctx, id, p)
}

type stubNoteService struct {
	ports.NoteService
	createFn func(ctx context.Context, in ports.NoteInput) (*domain.Note, error)
}

func (s *stubNoteService) Create(ctx context.Context, in ports.NoteInput) (*domain.Note, error) {
	return s.createFn(ctx, in)
}

func newContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUserHandler_Create_Success(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.UserInput) (*domain.User, error) {
			if in.Name != "alice" || in.Password != "secret" || in.Email != nil {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 3, Name: in.Name, Password: in.Password}, nil
		},
	}
	h := NewUserHandler(stub, "http://api.test/")

	c, rec := newContext(http.MethodPost, "/user", `{"name":"alice","password":"secret"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "http://api.test/user/3" {
		t.Fatalf("unexpected Location %q", loc)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != nil || resp["password"] != "secret" {
		t.Fatalf("unexpected body %v", resp)
	}
	links := resp["_links"].(map[string]any)
	if links["user"].(map[string]any)["href"] != "http://api.test/user/3" {
		t.Fatalf("missing user link: %v", links)
	}
}

func TestUserHandler_Create_MalformedBody(t *testing.T) {
	h := NewUserHandler(&stubUserService{}, "")

	c, _ := newContext(http.MethodPost, "/user", `{"name":`)
	err := h.Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestUserHandler_Get_BadID(t *testing.T) {
	stub := &stubUserService{
		getFn: func(ctx context.Context, id domain.UserID) (*domain.User, error) {
			t.Fatal("service must not be called for an unparseable id")
			return nil, nil
		},
	}
	h := NewUserHandler(stub, "")

	for _, raw := range []string{"abc", "0", "-4"} {
		c, _ := newContext(http.MethodGet, "/user/"+raw, "")
		c.SetParamNames("id")
		c.SetParamValues(raw)
		if err := h.Get(c); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("id %q: expected ErrUserNotFound, got %v", raw, err)
		}
	}
}

func TestUserHandler_Patch_OnlyPresentFields(t *testing.T) {
	stub := &stubUserService{
		patchFn: func(ctx context.Context, id domain.UserID, p ports.UserPatch) (*domain.User, error) {
			if id != 5 || p.Name != nil || p.Password != nil || p.Email == nil || *p.Email != "a@b.c" {
				t.Fatalf("unexpected patch for %d: %+v", id, p)
			}
			return &domain.User{ID: id, Name: "ann", Password: "pw", Email: p.Email}, nil
		},
	}
	h := NewUserHandler(stub, "")

	c, rec := newContext(http.MethodPatch, "/user/5", `{"email":"a@b.c"}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := h.Patch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestNoteHandler_Create_DecodesTimestamps(t *testing.T) {
	created := time.Date(2016, 10, 12, 20, 32, 54, 0, time.UTC)
	stub := &stubNoteService{
		createFn: func(ctx context.Context, in ports.NoteInput) (*domain.Note, error) {
			if in.Created == nil || !in.Created.Equal(created) {
				t.Fatalf("created not decoded: %v", in.Created)
			}
			if in.Reminder == nil || in.Reminder.UnixMilli() != created.Add(time.Hour).UnixMilli() {
				t.Fatalf("reminder not decoded: %v", in.Reminder)
			}
			if in.CreatedBy != "http://api.test/user/1" {
				t.Fatalf("unexpected createdBy %q", in.CreatedBy)
			}
			return &domain.Note{ID: 9, Title: in.Title, Created: *in.Created, Reminder: in.Reminder, CreatedBy: 1}, nil
		},
	}
	h := NewNoteHandler(stub, "http://api.test")

	reminderMillis := created.Add(time.Hour).UnixMilli()
	body := `{"title":"t","created":"2016-10-12T16:32:54.000-0400","reminder":` +
		jsonNumber(reminderMillis) + `,"createdBy":"http://api.test/user/1"}`
	c, rec := newContext(http.MethodPost, "/note", body)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["created"] != "2016-10-12T20:32:54.000+0000" {
		t.Fatalf("created rendered as %v", resp["created"])
	}
	if resp["createdBy"] != "http://api.test/user/1" {
		t.Fatalf("createdBy rendered as %v", resp["createdBy"])
	}
	links := resp["_links"].(map[string]any)
	if links["createdBy"].(map[string]any)["href"] != "http://api.test/note/9/createdBy" {
		t.Fatalf("unexpected createdBy link: %v", links)
	}
}

func jsonNumber(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	inputs := []string{
		`"2024-03-01T12:00:00Z"`,
		`"2024-03-01T13:00:00.000+01:00"`,
		`"2024-03-01T12:00:00.000+0000"`,
		`"2024-03-01T07:00:00-0500"`,
		`1709294400000`,
	}
	for _, in := range inputs {
		var ts Timestamp
		if err := json.Unmarshal([]byte(in), &ts); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if !ts.Equal(want) {
			t.Fatalf("%s: got %v", in, ts.Time)
		}
	}

	for _, bad := range []string{`"yesterday"`, `true`, `"2024-03-01"`} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(bad), &ts); err == nil {
			t.Fatalf("%s: expected error", bad)
		}
	}
}

func TestTimestamp_MarshalJSON_UTC(t *testing.T) {
	ts := Timestamp{time.Date(2024, 3, 1, 13, 0, 0, 0, time.FixedZone("CET", 3600))}
	b, err := json.Marshal(ts)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2024-03-01T12:00:00.000+0000"` {
		t.Fatalf("got %s", b)
	}
}
