// Package client is a typed HTTP client for the notes API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Link is a HAL link.
type Link struct {
	Href string `json:"href"`
}

type User struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Password string          `json:"password"`
	Email    *string         `json:"email"`
	Links    map[string]Link `json:"_links"`
}

// Self returns the user's address.
func (u User) Self() string { return u.Links["self"].Href }

// Note timestamps are returned as rendered by the server
// (2006-01-02T15:04:05.000-0700).
type Note struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Body      *string         `json:"body"`
	Category  *int64          `json:"category"`
	Created   string          `json:"created"`
	Reminder  *string         `json:"reminder"`
	CreatedBy string          `json:"createdBy"`
	Links     map[string]Link `json:"_links"`
}

func (n Note) Self() string { return n.Links["self"].Href }

type UserInput struct {
	Name     string  `json:"name"`
	Password string  `json:"password"`
	Email    *string `json:"email,omitempty"`
}

// NoteInput carries CreatedBy as a user address, typically User.Self().
type NoteInput struct {
	Title     string     `json:"title"`
	Body      *string    `json:"body,omitempty"`
	Category  *int64     `json:"category,omitempty"`
	Created   time.Time  `json:"created"`
	Reminder  *time.Time `json:"reminder,omitempty"`
	CreatedBy string     `json:"createdBy"`
}

// Error is a non-2xx answer. Reason tells the two kinds of 409 apart.
type Error struct {
	Status  int
	Message string `json:"error"`
	Reason  string `json:"reason"`
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("notes api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notes api: %d %s (%s)", e.Status, e.Message, e.Reason)
}

// IsStatus reports whether err is an *Error with the given status.
func IsStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == status
}

type Client struct {
	base string
	http *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, c.base+"/user", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CreateNote(ctx context.Context, in NoteInput) (*Note, error) {
	var n Note
	if err := c.do(ctx, http.MethodPost, c.base+"/note", in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var page struct {
		Embedded struct {
			Users []User `json:"user"`
		} `json:"_embedded"`
	}
	if err := c.do(ctx, http.MethodGet, c.base+"/user", nil, &page); err != nil {
		return nil, err
	}
	return page.Embedded.Users, nil
}

func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	var page struct {
		Embedded struct {
			Notes []Note `json:"note"`
		} `json:"_embedded"`
	}
	if err := c.do(ctx, http.MethodGet, c.base+"/note", nil, &page); err != nil {
		return nil, err
	}
	return page.Embedded.Notes, nil
}

// Delete removes the record at href, an address taken from a _links.self.
func (c *Client) Delete(ctx context.Context, href string) error {
	return c.do(ctx, http.MethodDelete, href, nil, nil)
}

// Reset deletes every note, then every user. Notes go first because a user
// with notes cannot be deleted.
func (c *Client) Reset(ctx context.Context) error {
	notes, err := c.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	for _, n := range notes {
		if err := c.Delete(ctx, n.Self()); err != nil && !IsStatus(err, http.StatusNotFound) {
			return fmt.Errorf("delete note %d: %w", n.ID, err)
		}
	}

	users, err := c.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if err := c.Delete(ctx, u.Self()); err != nil && !IsStatus(err, http.StatusNotFound) {
			return fmt.Errorf("delete user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, url, err)
	}
	return nil
}
