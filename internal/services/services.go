package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("invalid credentials")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrAccessDenied         = errors.New("access is denied")
	ErrProjectNotFound      = errors.New("invalid project id")
	ErrTaskNotFound         = errors.New("invalid task id")
	ErrNoteNotFound         = errors.New("invalid note id")
	ErrMemberNotFound       = errors.New("user is not a member of the project")
	ErrInvalidUserID        = errors.New("invalid user id")
	ErrCannotRemoveOwner    = errors.New("project owner cannot be removed")
	ErrTaskAlreadyClosed    = models.ErrTaskAlreadyClosed
	ErrTaskAlreadyOpened    = models.ErrTaskAlreadyOpened
)

// ValidationError reports the first invalid field of a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TakenError reports a signup credential already used by another account.
// It unwraps to ErrUserAlreadyExists.
type TakenError struct {
	Field string
	Value string
}

func (e *TakenError) Error() string {
	return fmt.Sprintf("%s '%s' is already taken", e.Field, e.Value)
}

func (e *TakenError) Unwrap() error {
	return ErrUserAlreadyExists
}

type AuthService interface {
	// Signup registers a user with a unique username and email, both
	// compared case-insensitively, and opens a session for them.
	//
	// It returns a *ValidationError for malformed input and a *TakenError
	// if the email or username is already used.
	Signup(ctx context.Context, params SignupParams) (*AuthResult, error)

	// Login authenticates the user by username or email and password.
	//
	// It deletes all sessions of the user, creates a new one and issues
	// a fresh token pair.
	//
	// It returns ErrUserNotFound if no user matches the login or
	// ErrUserPasswordMismatch if the password is wrong.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)

	// Refresh rotates the refresh token of the session it belongs to.
	//
	// It returns ErrSessionNotFound if the token is unknown or
	// ErrSessionExpired if the session is expired.
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ParseAccessToken parses the given JWT and returns its registered
	// claims. The subject is the session ID.
	ParseAccessToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	// GetActiveSession returns the session unless it is missing or expired.
	GetActiveSession(ctx context.Context, sessionID string) (*models.Session, error)
}

type UserService interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.UserRef, error)
}

type ProjectService interface {
	ListProjects(ctx context.Context, userID string) ([]*models.Project, error)
	CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error)
	GetProject(ctx context.Context, userID, projectID string) (*models.Project, error)
	RenameProject(ctx context.Context, params RenameProjectParams) (*models.Project, error)
	DeleteProject(ctx context.Context, userID, projectID string) error
	AddMembers(ctx context.Context, params AddMembersParams) ([]models.Member, error)
	RemoveMember(ctx context.Context, userID, projectID, memberID string) error
}

type TaskService interface {
	// ListTasks returns the project's tasks with users, notes and assignees
	// attached. The caller must be a project member.
	ListTasks(ctx context.Context, userID, projectID string) ([]*models.Task, error)

	// ListAllTasks returns every task of every project without joins.
	ListAllTasks(ctx context.Context) ([]*models.Task, error)

	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// UpdateTask replaces title, description, priority and the assignee
	// set. Status fields are never touched.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask removes the task with its notes and assignees. Only the
	// project creator or the task creator may delete it.
	DeleteTask(ctx context.Context, params TaskParams) error

	// CloseTask returns ErrTaskAlreadyClosed if the task is resolved.
	CloseTask(ctx context.Context, params TaskParams) (*models.Task, error)

	// ReopenTask returns ErrTaskAlreadyOpened if the task is open.
	ReopenTask(ctx context.Context, params TaskParams) (*models.Task, error)
}

type NoteService interface {
	CreateNote(ctx context.Context, params CreateNoteParams) (*models.Note, error)
	UpdateNote(ctx context.Context, params UpdateNoteParams) (*models.Note, error)
	DeleteNote(ctx context.Context, params NoteParams) error
}

type SignupParams struct {
	Name     string `validate:"min=1,max=255"`
	Username string `validate:"min=3,max=20,username"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"min=6,max=255"`
}

type LoginParams struct {
	Login    string `validate:"required"`
	Password string `validate:"required"`
}

type AuthResult struct {
	User                  *models.User
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type CreateProjectParams struct {
	UserID    string
	Name      string `validate:"min=1,max=60"`
	MemberIDs []string
}

type RenameProjectParams struct {
	UserID    string
	ProjectID string
	Name      string `validate:"min=1,max=60"`
}

type AddMembersParams struct {
	UserID    string
	ProjectID string
	MemberIDs []string `validate:"min=1"`
}

type TaskParams struct {
	UserID    string
	ProjectID string
	TaskID    string
}

type CreateTaskParams struct {
	UserID      string
	ProjectID   string
	Title       string          `validate:"min=3,max=60"`
	Description string          `validate:"required"`
	Priority    models.Priority `validate:"priority"`
	AssigneeIDs []string
}

type UpdateTaskParams struct {
	UserID      string
	ProjectID   string
	TaskID      string
	Title       string          `validate:"min=3,max=60"`
	Description string          `validate:"required"`
	Priority    models.Priority `validate:"priority"`
	AssigneeIDs []string
}

type NoteParams struct {
	UserID    string
	ProjectID string
	NoteID    int64
}

type CreateNoteParams struct {
	UserID    string
	ProjectID string
	TaskID    string
	Body      string `validate:"required,max=1000"`
}

type UpdateNoteParams struct {
	UserID    string
	ProjectID string
	NoteID    int64
	Body      string `validate:"required,max=1000"`
}

// Repositories are implemented by the storage backends. Lookups return
// storage.ErrNotFound for missing rows.

type UserRepository interface {
	InsertUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context) ([]models.UserRef, error)
}

type SessionRepository interface {
	ReplaceSessions(ctx context.Context, session *models.Session) error
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error)
	RotateSession(ctx context.Context, sessionID, refreshToken string, expiresAt, updatedAt time.Time) error
	DeleteSessionsByUserID(ctx context.Context, userID string) error
}

type ProjectRepository interface {
	InsertProject(ctx context.Context, project *models.Project, memberIDs []string) error
	GetProjectByID(ctx context.Context, projectID string) (*models.Project, error)
	ListProjectsByMember(ctx context.Context, userID string) ([]*models.Project, error)
	UpdateProjectName(ctx context.Context, projectID, name string, updatedAt time.Time) error
	DeleteProject(ctx context.Context, projectID string) error
	InsertMembers(ctx context.Context, projectID string, userIDs []string, joinedAt time.Time) error
	DeleteMember(ctx context.Context, projectID, userID string) error
}

type TaskRepository interface {
	ListTasksByProject(ctx context.Context, projectID string) ([]*models.Task, error)
	ListAllTasks(ctx context.Context) ([]*models.Task, error)
	GetTaskByID(ctx context.Context, taskID string) (*models.Task, error)
	InsertTask(ctx context.Context, task *models.Task, assigneeIDs []string) error
	UpdateTask(ctx context.Context, task *models.Task, assigneeIDs []string) error
	UpdateTaskStatus(ctx context.Context, taskID string, apply func(task *models.Task) error) error
	DeleteTask(ctx context.Context, taskID string) error
}

type NoteRepository interface {
	InsertNote(ctx context.Context, note *models.Note) error
	GetNoteByID(ctx context.Context, noteID int64) (*models.Note, error)
	UpdateNoteBody(ctx context.Context, noteID int64, body string, updatedAt time.Time) error
	DeleteNote(ctx context.Context, noteID int64) error
}
