package models

import (
	"errors"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var (
	ErrTaskAlreadyClosed = errors.New("task is already marked as closed")
	ErrTaskAlreadyOpened = errors.New("task is already marked as opened")
)

// Rank orders priorities from low (1) to high (3). Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Priority    Priority
	IsResolved  bool
	CreatedBy   UserRef
	UpdatedBy   *UserRef
	ClosedBy    *UserRef
	ClosedAt    *time.Time
	ReopenedBy  *UserRef
	ReopenedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	Notes       []Note
	Assigned    []Assigned
}

type Assigned struct {
	ID       int64
	TaskID   string
	User     UserRef
	JoinedAt time.Time
}

// Close marks the task resolved by the given user. Reopen fields are cleared
// so that only the latest status action is recorded.
func (t *Task) Close(by UserRef, at time.Time) error {
	if t.IsResolved {
		return ErrTaskAlreadyClosed
	}
	t.IsResolved = true
	t.ClosedBy = &by
	t.ClosedAt = &at
	t.ReopenedBy = nil
	t.ReopenedAt = nil
	return nil
}

func (t *Task) Reopen(by UserRef, at time.Time) error {
	if !t.IsResolved {
		return ErrTaskAlreadyOpened
	}
	t.IsResolved = false
	t.ReopenedBy = &by
	t.ReopenedAt = &at
	t.ClosedBy = nil
	t.ClosedAt = nil
	return nil
}

func (t *Task) AssigneeIDs() []string {
	ids := make([]string, 0, len(t.Assigned))
	for _, a := range t.Assigned {
		ids = append(ids, a.User.ID)
	}
	return ids
}
