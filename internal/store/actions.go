package store

import (
	"time"

	"github.com/adanyl0v/go-task-tracker/internal/client"
)

// Action is one of the types below.
type Action interface {
	action()
}

type SetTasks struct {
	ProjectID string
	Tasks     []client.Task
}

type AddTask struct {
	ProjectID string
	Task      client.Task
}

type UpdateTask struct {
	ProjectID string
	TaskID    string
	Data      EditedTask
}

type RemoveTask struct {
	ProjectID string
	TaskID    string
}

type UpdateTaskStatus struct {
	ProjectID string
	TaskID    string
	Data      TaskStatus
}

type AddNote struct {
	ProjectID string
	TaskID    string
	Note      client.Note
}

type UpdateNote struct {
	ProjectID string
	TaskID    string
	NoteID    int64
	Body      string
	UpdatedAt time.Time
}

type RemoveNote struct {
	ProjectID string
	TaskID    string
	NoteID    int64
}

type SetFetchLoading struct{}

type SetFetchError struct {
	Message string
}

type SetSubmitLoading struct{}

type SetSubmitError struct {
	Message string
}

type ClearSubmitError struct{}

type SortTasksBy struct {
	SortBy TaskSort
}

type FilterTasksBy struct {
	FilterBy TaskFilter
}

type SetTasksDone struct {
	Tasks []client.Task
}

func (SetTasks) action()         {}
func (AddTask) action()          {}
func (UpdateTask) action()       {}
func (RemoveTask) action()       {}
func (UpdateTaskStatus) action() {}
func (AddNote) action()          {}
func (UpdateNote) action()       {}
func (RemoveNote) action()       {}
func (SetFetchLoading) action()  {}
func (SetFetchError) action()    {}
func (SetSubmitLoading) action() {}
func (SetSubmitError) action()   {}
func (ClearSubmitError) action() {}
func (SortTasksBy) action()      {}
func (FilterTasksBy) action()    {}
func (SetTasksDone) action()     {}
