package ports

import (
	"context"
	"strconv"
	"time"
)

// Action names what happened to a resource.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// RepositoryEvent describes a committed mutation.
type RepositoryEvent struct {
	Resource string    `json:"resource"`
	Action   Action    `json:"action"`
	ID       int64     `json:"id"`
	At       time.Time `json:"at"`
}

// Key groups events of the same record so they can be kept in order.
func (e RepositoryEvent) Key() string {
	return e.Resource + "/" + strconv.FormatInt(e.ID, 10)
}

// EventPublisher ships repository events to interested parties.
type EventPublisher interface {
	Publish(ctx context.Context, event RepositoryEvent) error
}
