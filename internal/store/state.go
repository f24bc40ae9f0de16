// Package store holds the client-side task state. State changes only
// through Reduce; Store runs API calls and dispatches their results.
package store

import (
	"time"

	"github.com/adanyl0v/go-task-tracker/internal/client"
)

type TaskSort string

const (
	SortNewest     TaskSort = "newest"
	SortOldest     TaskSort = "oldest"
	SortAZ         TaskSort = "a-z"
	SortZA         TaskSort = "z-a"
	SortHighLow    TaskSort = "h-l"
	SortLowHigh    TaskSort = "l-h"
	SortClosed     TaskSort = "closed"
	SortReopened   TaskSort = "reopened"
	SortUpdated    TaskSort = "updated"
	SortMostNotes  TaskSort = "most-notes"
	SortLeastNotes TaskSort = "least-notes"
)

var TaskSorts = []TaskSort{
	SortNewest, SortOldest, SortAZ, SortZA, SortHighLow, SortLowHigh,
	SortClosed, SortReopened, SortUpdated, SortMostNotes, SortLeastNotes,
}

type TaskFilter string

const (
	FilterAll    TaskFilter = "all"
	FilterClosed TaskFilter = "closed"
	FilterOpen   TaskFilter = "open"
)

var TaskFilters = []TaskFilter{FilterAll, FilterClosed, FilterOpen}

type State struct {
	// Tasks are keyed by project id.
	Tasks         map[string][]client.Task
	TasksDone     []client.Task
	FetchLoading  bool
	FetchError    string
	SubmitLoading bool
	SubmitError   string
	SortBy        TaskSort
	FilterBy      TaskFilter
}

func InitialState() State {
	return State{
		Tasks:    map[string][]client.Task{},
		SortBy:   SortNewest,
		FilterBy: FilterAll,
	}
}

// EditedTask is the part of a task an edit may change.
type EditedTask struct {
	Title         string
	Description   string
	Priority      client.Priority
	AssignedUsers []client.Assigned
	UpdatedAt     *time.Time
	UpdatedBy     *client.User
}

// TaskStatus is the part of a task a close or reopen changes.
type TaskStatus struct {
	IsResolved bool
	ClosedAt   *time.Time
	ClosedBy   *client.User
	ReopenedAt *time.Time
	ReopenedBy *client.User
}

func editedTask(task *client.Task) EditedTask {
	return EditedTask{
		Title:         task.Title,
		Description:   task.Description,
		Priority:      task.Priority,
		AssignedUsers: task.AssignedUsers,
		UpdatedAt:     task.UpdatedAt,
		UpdatedBy:     task.UpdatedBy,
	}
}

func taskStatus(task *client.Task) TaskStatus {
	return TaskStatus{
		IsResolved: task.IsResolved,
		ClosedAt:   task.ClosedAt,
		ClosedBy:   task.ClosedBy,
		ReopenedAt: task.ReopenedAt,
		ReopenedBy: task.ReopenedBy,
	}
}
