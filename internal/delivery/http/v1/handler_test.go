package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

const (
	testToken     = "valid-token"
	testUserID    = "0190f5a6-3c1e-7a2b-9c4d-000000000001"
	testProjectID = "0190f5a6-3c1e-7a2b-9c4d-000000000002"
	testTaskID    = "0190f5a6-3c1e-7a2b-9c4d-000000000003"
)

// Embedded interfaces panic on methods a test does not stub.

type fakeAuthService struct {
	services.AuthService
	signup func(params services.SignupParams) (*services.AuthResult, error)
	login  func(params services.LoginParams) (*services.AuthResult, error)
}

func (f *fakeAuthService) Signup(_ context.Context, params services.SignupParams) (*services.AuthResult, error) {
	return f.signup(params)
}

func (f *fakeAuthService) Login(_ context.Context, params services.LoginParams) (*services.AuthResult, error) {
	return f.login(params)
}

func (f *fakeAuthService) Logout(context.Context, string) error {
	return nil
}

func (f *fakeAuthService) ParseAccessToken(token string) (*jwt.RegisteredClaims, error) {
	if token != testToken {
		return nil, errors.New("bad token")
	}
	return &jwt.RegisteredClaims{Subject: "session"}, nil
}

type fakeSessionService struct{}

func (fakeSessionService) GetActiveSession(_ context.Context, sessionID string) (*models.Session, error) {
	return &models.Session{ID: sessionID, UserID: testUserID}, nil
}

type fakeTaskService struct {
	services.TaskService
	list    func(userID, projectID string) ([]*models.Task, error)
	listAll func() ([]*models.Task, error)
	create  func(params services.CreateTaskParams) (*models.Task, error)
	close   func(params services.TaskParams) (*models.Task, error)
	delete  func(params services.TaskParams) error
}

func (f *fakeTaskService) ListTasks(_ context.Context, userID, projectID string) ([]*models.Task, error) {
	return f.list(userID, projectID)
}

func (f *fakeTaskService) ListAllTasks(context.Context) ([]*models.Task, error) {
	return f.listAll()
}

func (f *fakeTaskService) CreateTask(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	return f.create(params)
}

func (f *fakeTaskService) CloseTask(_ context.Context, params services.TaskParams) (*models.Task, error) {
	return f.close(params)
}

func (f *fakeTaskService) DeleteTask(_ context.Context, params services.TaskParams) error {
	return f.delete(params)
}

type fakeNoteService struct {
	services.NoteService
	update func(params services.UpdateNoteParams) (*models.Note, error)
}

func (f *fakeNoteService) UpdateNote(_ context.Context, params services.UpdateNoteParams) (*models.Note, error) {
	return f.update(params)
}

func newTestRouter(s Services) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if s.Auth == nil {
		s.Auth = &fakeAuthService{}
	}
	if s.Sessions == nil {
		s.Sessions = fakeSessionService{}
	}

	h := New(zerolog.Nop(), s)
	router := gin.New()
	router.Use(h.HandleRecovery)
	RegisterRoutes(router, h)
	return router
}

func doRequest(router http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func authHeaderWith(name, value string) http.Header {
	header := http.Header{}
	header.Set(name, value)
	return header
}

func tokenAuth() http.Header {
	return authHeaderWith(tokenHeader, testToken)
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func sampleTask() *models.Task {
	closedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &models.Task{
		ID:          testTaskID,
		ProjectID:   testProjectID,
		Title:       "Write docs",
		Description: "all of them",
		Priority:    models.PriorityHigh,
		IsResolved:  true,
		CreatedBy:   models.UserRef{ID: testUserID, Username: "alice"},
		ClosedBy:    &models.UserRef{ID: testUserID, Username: "alice"},
		ClosedAt:    &closedAt,
		CreatedAt:   closedAt.Add(-time.Hour),
		Notes: []models.Note{{
			ID:     7,
			TaskID: testTaskID,
			Body:   "started",
			Author: models.UserRef{ID: testUserID, Username: "alice"},
		}},
		Assigned: []models.Assigned{{
			ID:     3,
			TaskID: testTaskID,
			User:   models.UserRef{ID: testUserID, Username: "alice"},
		}},
	}
}

func TestAuthMiddleware(t *testing.T) {
	tasks := &fakeTaskService{
		list: func(userID, projectID string) ([]*models.Task, error) {
			assert.Equal(t, testUserID, userID)
			assert.Equal(t, testProjectID, projectID)
			return []*models.Task{}, nil
		},
	}
	router := newTestRouter(Services{Tasks: tasks})
	path := "/projects/" + testProjectID + "/tasks"

	rec := doRequest(router, http.MethodGet, path, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgMissingToken, decodeMessage(t, rec))

	rec = doRequest(router, http.MethodGet, path, nil, authHeaderWith(tokenHeader, "forged"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgInvalidToken, decodeMessage(t, rec))

	rec = doRequest(router, http.MethodGet, path, nil, tokenAuth())
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, path, nil, authHeaderWith(authHeader, "Bearer "+testToken))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetTasksResponseShape(t *testing.T) {
	tasks := &fakeTaskService{
		list: func(string, string) ([]*models.Task, error) {
			return []*models.Task{sampleTask()}, nil
		},
	}
	router := newTestRouter(Services{Tasks: tasks})

	rec := doRequest(router, http.MethodGet, "/projects/"+testProjectID+"/tasks", nil, tokenAuth())
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)

	task := body[0]
	assert.Equal(t, testTaskID, task["id"])
	assert.Equal(t, testProjectID, task["projectId"])
	assert.Equal(t, "high", task["priority"])
	assert.Equal(t, true, task["isResolved"])
	assert.Equal(t, "alice", task["createdBy"].(map[string]any)["username"])
	assert.Equal(t, "alice", task["closedBy"].(map[string]any)["username"])
	assert.Nil(t, task["reopenedBy"])
	assert.Nil(t, task["updatedAt"])
	assert.Contains(t, task, "closedAt")

	notes := task["notes"].([]any)
	require.Len(t, notes, 1)
	assert.Equal(t, "started", notes[0].(map[string]any)["body"])
	assert.Equal(t, testTaskID, notes[0].(map[string]any)["taskId"])

	assigned := task["assignedUsers"].([]any)
	require.Len(t, assigned, 1)
	assert.Equal(t, testUserID, assigned[0].(map[string]any)["user"].(map[string]any)["id"])
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "access denied", err: services.ErrAccessDenied, status: http.StatusUnauthorized, message: "Access is denied."},
		{name: "project not found", err: services.ErrProjectNotFound, status: http.StatusNotFound, message: "Invalid project id."},
		{
			name:    "already closed",
			err:     services.ErrTaskAlreadyClosed,
			status:  http.StatusBadRequest,
			message: "Task is already marked as closed.",
		},
		{
			name:    "validation",
			err:     &services.ValidationError{Field: "Title", Message: "title must be in range of 3-60 characters length"},
			status:  http.StatusBadRequest,
			message: "Title must be in range of 3-60 characters length.",
		},
		{name: "invalid user", err: services.ErrInvalidUserID, status: http.StatusBadRequest, message: "Invalid user id."},
		{name: "unexpected", err: errors.New("db is down"), status: http.StatusInternalServerError, message: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := &fakeTaskService{
				close: func(services.TaskParams) (*models.Task, error) {
					return nil, tt.err
				},
			}
			router := newTestRouter(Services{Tasks: tasks})

			rec := doRequest(router, http.MethodPost, "/projects/"+testProjectID+"/tasks/"+testTaskID+"/close", nil, tokenAuth())
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeMessage(t, rec))
		})
	}
}

func TestCloseTask(t *testing.T) {
	tasks := &fakeTaskService{
		close: func(params services.TaskParams) (*models.Task, error) {
			assert.Equal(t, services.TaskParams{UserID: testUserID, ProjectID: testProjectID, TaskID: testTaskID}, params)
			return sampleTask(), nil
		},
	}
	router := newTestRouter(Services{Tasks: tasks})

	rec := doRequest(router, http.MethodPost, "/projects/"+testProjectID+"/tasks/"+testTaskID+"/close", nil, tokenAuth())
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestMalformedPathIDs(t *testing.T) {
	router := newTestRouter(Services{Tasks: &fakeTaskService{}, Notes: &fakeNoteService{}})

	rec := doRequest(router, http.MethodPost, "/projects/not-a-uuid/tasks/"+testTaskID+"/close", nil, tokenAuth())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invalid project id.", decodeMessage(t, rec))

	rec = doRequest(router, http.MethodDelete, "/projects/"+testProjectID+"/tasks/42", nil, tokenAuth())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invalid task id.", decodeMessage(t, rec))

	rec = doRequest(router, http.MethodPut, "/projects/"+testProjectID+"/notes/abc", noteRequest{Body: "x"}, tokenAuth())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invalid note id.", decodeMessage(t, rec))
}

func TestCreateTaskBindsRequest(t *testing.T) {
	tasks := &fakeTaskService{
		create: func(params services.CreateTaskParams) (*models.Task, error) {
			assert.Equal(t, testUserID, params.UserID)
			assert.Equal(t, "Write docs", params.Title)
			assert.Equal(t, models.PriorityLow, params.Priority)
			assert.Equal(t, []string{testUserID}, params.AssigneeIDs)
			return sampleTask(), nil
		},
	}
	router := newTestRouter(Services{Tasks: tasks})

	rec := doRequest(router, http.MethodPost, "/projects/"+testProjectID+"/tasks", taskRequest{
		Title:         "Write docs",
		Description:   "all of them",
		Priority:      models.PriorityLow,
		AssignedUsers: []string{testUserID},
	}, tokenAuth())
	assert.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/projects/"+testProjectID+"/tasks", bytes.NewBufferString("{"))
	req.Header.Set(tokenHeader, testToken)
	bad := httptest.NewRecorder()
	router.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, msgInvalidRequestBody, decodeMessage(t, bad))
}

func TestDeleteTask(t *testing.T) {
	tasks := &fakeTaskService{
		delete: func(services.TaskParams) error { return nil },
	}
	router := newTestRouter(Services{Tasks: tasks})

	rec := doRequest(router, http.MethodDelete, "/projects/"+testProjectID+"/tasks/"+testTaskID, nil, tokenAuth())
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestTasksDoneIsPublic(t *testing.T) {
	tasks := &fakeTaskService{
		listAll: func() ([]*models.Task, error) {
			return []*models.Task{{ID: testTaskID, Title: "raw"}}, nil
		},
	}
	router := newTestRouter(Services{Tasks: tasks})

	rec := doRequest(router, http.MethodGet, "/projects/tasks/done", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "raw", body[0]["title"])
}

func TestUpdateNote(t *testing.T) {
	notes := &fakeNoteService{
		update: func(params services.UpdateNoteParams) (*models.Note, error) {
			assert.Equal(t, int64(12), params.NoteID)
			return &models.Note{ID: 12, TaskID: testTaskID, Body: params.Body}, nil
		},
	}
	router := newTestRouter(Services{Notes: notes})

	rec := doRequest(router, http.MethodPut, "/projects/"+testProjectID+"/notes/12", noteRequest{Body: "edited"}, tokenAuth())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"body":"edited"`)
}

func TestSignupConflict(t *testing.T) {
	auth := &fakeAuthService{
		signup: func(params services.SignupParams) (*services.AuthResult, error) {
			return nil, &services.TakenError{Field: "email", Value: params.Email}
		},
	}
	router := newTestRouter(Services{Auth: auth})

	rec := doRequest(router, http.MethodPost, "/signup", signupRequest{
		Name:     "Alice",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email 'alice@example.com' is already taken.", decodeMessage(t, rec))
}

func TestLogin(t *testing.T) {
	expiresAt := time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC)
	auth := &fakeAuthService{
		login: func(params services.LoginParams) (*services.AuthResult, error) {
			switch params.Login {
			case "alice":
				return &services.AuthResult{
					User:                 &models.User{ID: testUserID, Username: "alice", Email: "alice@example.com"},
					AccessToken:          "access",
					AccessTokenExpiresAt: expiresAt,
					RefreshToken:         "refresh",
				}, nil
			case "bob":
				return nil, services.ErrUserNotFound
			default:
				return nil, services.ErrUserPasswordMismatch
			}
		},
	}
	router := newTestRouter(Services{Auth: auth})

	rec := doRequest(router, http.MethodPost, "/login", loginRequest{Username: "alice", Password: "secret123"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{
		"id": "`+testUserID+`",
		"username": "alice",
		"email": "alice@example.com",
		"token": "access",
		"refreshToken": "refresh",
		"expiresAt": "2024-05-01T10:15:00Z"
	}`, rec.Body.String())

	rec = doRequest(router, http.MethodPost, "/login", loginRequest{Username: "bob", Password: "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User: 'bob' not found.", decodeMessage(t, rec))

	rec = doRequest(router, http.MethodPost, "/login", loginRequest{Username: "carol", Password: "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials.", decodeMessage(t, rec))
}

func TestLogout(t *testing.T) {
	router := newTestRouter(Services{})

	rec := doRequest(router, http.MethodPost, "/logout", nil, tokenAuth())
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecovery(t *testing.T) {
	tasks := &fakeTaskService{
		list: func(string, string) ([]*models.Task, error) {
			panic("boom")
		},
	}
	router := newTestRouter(Services{Tasks: tasks})

	rec := doRequest(router, http.MethodGet, "/projects/"+testProjectID+"/tasks", nil, tokenAuth())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeMessage(t, rec))
}

func TestHealth(t *testing.T) {
	router := newTestRouter(Services{})

	rec := doRequest(router, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
