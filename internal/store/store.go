package store

import (
	"context"
	"errors"
	"sync"

	"github.com/adanyl0v/go-task-tracker/internal/client"
)

// API is the part of *client.Client the store calls.
type API interface {
	ListTasks(ctx context.Context, projectID string) ([]client.Task, error)
	ListTasksDone(ctx context.Context) ([]client.Task, error)
	CreateTask(ctx context.Context, projectID string, payload client.TaskPayload) (*client.Task, error)
	UpdateTask(ctx context.Context, projectID, taskID string, payload client.TaskPayload) (*client.Task, error)
	DeleteTask(ctx context.Context, projectID, taskID string) error
	CloseTask(ctx context.Context, projectID, taskID string) (*client.Task, error)
	ReopenTask(ctx context.Context, projectID, taskID string) (*client.Task, error)
	CreateNote(ctx context.Context, projectID, taskID, body string) (*client.Note, error)
	UpdateNote(ctx context.Context, projectID string, noteID int64, body string) (*client.Note, error)
	DeleteNote(ctx context.Context, projectID string, noteID int64) error
}

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

type Notification struct {
	Message string
	Kind    NotificationKind
}

type Notifier func(n Notification)

type Option func(s *Store)

func WithNotifier(notify Notifier) Option {
	return func(s *Store) {
		s.notify = notify
	}
}

func WithState(state State) Option {
	return func(s *Store) {
		s.state = state
	}
}

// Store serializes reductions behind a mutex. API calls run outside it.
type Store struct {
	mu     sync.Mutex
	state  State
	api    API
	notify Notifier
}

func New(api API, opts ...Option) *Store {
	s := &Store{
		state:  InitialState(),
		api:    api,
		notify: func(Notification) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	s.mu.Unlock()
}

func (s *Store) success(message string) {
	s.notify(Notification{Message: message, Kind: NotificationSuccess})
}

func (s *Store) failure(err error) {
	s.notify(Notification{Message: ErrorMessage(err), Kind: NotificationError})
}

// ErrorMessage returns the server message of an *client.APIError, or the
// error text otherwise.
func ErrorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func (s *Store) FetchTasks(ctx context.Context, projectID string) error {
	s.Dispatch(SetFetchLoading{})
	tasks, err := s.api.ListTasks(ctx, projectID)
	if err != nil {
		s.Dispatch(SetFetchError{Message: ErrorMessage(err)})
		return err
	}
	s.Dispatch(SetTasks{ProjectID: projectID, Tasks: tasks})
	return nil
}

func (s *Store) FetchTasksDone(ctx context.Context) error {
	s.Dispatch(SetFetchLoading{})
	tasks, err := s.api.ListTasksDone(ctx)
	if err != nil {
		s.Dispatch(SetFetchError{Message: ErrorMessage(err)})
		return err
	}
	s.Dispatch(SetTasksDone{Tasks: tasks})
	return nil
}

func (s *Store) CreateTask(ctx context.Context, projectID string, payload client.TaskPayload) error {
	s.Dispatch(SetSubmitLoading{})
	task, err := s.api.CreateTask(ctx, projectID, payload)
	if err != nil {
		s.Dispatch(SetSubmitError{Message: ErrorMessage(err)})
		return err
	}
	s.Dispatch(AddTask{ProjectID: projectID, Task: *task})
	s.success("New task added!")
	return nil
}

func (s *Store) EditTask(ctx context.Context, projectID, taskID string, payload client.TaskPayload) error {
	s.Dispatch(SetSubmitLoading{})
	task, err := s.api.UpdateTask(ctx, projectID, taskID, payload)
	if err != nil {
		s.Dispatch(SetSubmitError{Message: ErrorMessage(err)})
		return err
	}
	s.Dispatch(UpdateTask{ProjectID: projectID, TaskID: taskID, Data: editedTask(task)})
	s.success("Successfully updated the task!")
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, projectID, taskID string) error {
	if err := s.api.DeleteTask(ctx, projectID, taskID); err != nil {
		s.failure(err)
		return err
	}
	s.Dispatch(RemoveTask{ProjectID: projectID, TaskID: taskID})
	s.success("Deleted the task.")
	return nil
}

// ToggleTaskStatus closes the task when action is "close" and reopens it
// otherwise.
func (s *Store) ToggleTaskStatus(ctx context.Context, projectID, taskID, action string) error {
	var (
		task    *client.Task
		err     error
		message string
	)
	if action == "close" {
		task, err = s.api.CloseTask(ctx, projectID, taskID)
		message = "Closed the task!"
	} else {
		task, err = s.api.ReopenTask(ctx, projectID, taskID)
		message = "Re-opened the task!"
	}
	if err != nil {
		s.failure(err)
		return err
	}
	s.Dispatch(UpdateTaskStatus{ProjectID: projectID, TaskID: taskID, Data: taskStatus(task)})
	s.success(message)
	return nil
}

func (s *Store) CloseTask(ctx context.Context, projectID, taskID string) error {
	return s.ToggleTaskStatus(ctx, projectID, taskID, "close")
}

func (s *Store) ReopenTask(ctx context.Context, projectID, taskID string) error {
	return s.ToggleTaskStatus(ctx, projectID, taskID, "reopen")
}

func (s *Store) CreateNote(ctx context.Context, projectID, taskID, body string) error {
	s.Dispatch(SetSubmitLoading{})
	note, err := s.api.CreateNote(ctx, projectID, taskID, body)
	if err != nil {
		s.Dispatch(SetSubmitError{Message: ErrorMessage(err)})
		return err
	}
	s.Dispatch(AddNote{ProjectID: projectID, TaskID: taskID, Note: *note})
	s.success("New note added!")
	return nil
}

func (s *Store) EditNote(ctx context.Context, projectID, taskID string, noteID int64, body string) error {
	s.Dispatch(SetSubmitLoading{})
	note, err := s.api.UpdateNote(ctx, projectID, noteID, body)
	if err != nil {
		s.Dispatch(SetSubmitError{Message: ErrorMessage(err)})
		return err
	}
	s.Dispatch(UpdateNote{
		ProjectID: projectID,
		TaskID:    taskID,
		NoteID:    noteID,
		Body:      note.Body,
		UpdatedAt: note.UpdatedAt,
	})
	s.success("Updated the note!")
	return nil
}

func (s *Store) DeleteNote(ctx context.Context, projectID, taskID string, noteID int64) error {
	if err := s.api.DeleteNote(ctx, projectID, noteID); err != nil {
		s.failure(err)
		return err
	}
	s.Dispatch(RemoveNote{ProjectID: projectID, TaskID: taskID, NoteID: noteID})
	s.success("Deleted the note.")
	return nil
}
