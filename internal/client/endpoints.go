package client

import (
	"context"
	"net/http"
)

// Signup registers and stores the returned token on the client.
func (c *Client) Signup(ctx context.Context, payload SignupPayload) (*Auth, error) {
	var auth Auth
	err := c.do(ctx, http.MethodPost, "/signup", payload, &auth)
	if err != nil {
		return nil, err
	}
	c.SetToken(auth.Token)
	return &auth, nil
}

// Login authenticates by username or email and stores the returned token.
func (c *Client) Login(ctx context.Context, username, password string) (*Auth, error) {
	var auth Auth
	err := c.do(ctx, http.MethodPost, "/login", map[string]string{
		"username": username,
		"password": password,
	}, &auth)
	if err != nil {
		return nil, err
	}
	c.SetToken(auth.Token)
	return &auth, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Auth, error) {
	var auth Auth
	err := c.do(ctx, http.MethodPost, "/refresh", map[string]string{
		"refreshToken": refreshToken,
	}, &auth)
	if err != nil {
		return nil, err
	}
	c.SetToken(auth.Token)
	return &auth, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil)
	if err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var profile Profile
	err := c.do(ctx, http.MethodGet, "/me", nil, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := c.do(ctx, http.MethodGet, "/users", nil, &users)
	return users, err
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := c.do(ctx, http.MethodGet, "/projects", nil, &projects)
	return projects, err
}

func (c *Client) CreateProject(ctx context.Context, payload ProjectPayload) (*Project, error) {
	var project Project
	err := c.do(ctx, http.MethodPost, "/projects", payload, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) GetProject(ctx context.Context, projectID string) (*Project, error) {
	var project Project
	err := c.do(ctx, http.MethodGet, pathf("/projects/%s", projectID), nil, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) RenameProject(ctx context.Context, projectID, name string) (*Project, error) {
	var project Project
	err := c.do(ctx, http.MethodPut, pathf("/projects/%s", projectID), map[string]string{
		"name": name,
	}, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.do(ctx, http.MethodDelete, pathf("/projects/%s", projectID), nil, nil)
}

func (c *Client) AddMembers(ctx context.Context, projectID string, userIDs []string) ([]Member, error) {
	var members []Member
	err := c.do(ctx, http.MethodPost, pathf("/projects/%s/members", projectID), map[string][]string{
		"members": userIDs,
	}, &members)
	return members, err
}

func (c *Client) RemoveMember(ctx context.Context, projectID, userID string) error {
	return c.do(ctx, http.MethodDelete, pathf("/projects/%s/members/%s", projectID, userID), nil, nil)
}

func (c *Client) ListTasks(ctx context.Context, projectID string) ([]Task, error) {
	var tasks []Task
	err := c.do(ctx, http.MethodGet, pathf("/projects/%s/tasks", projectID), nil, &tasks)
	return tasks, err
}

func (c *Client) ListTasksDone(ctx context.Context) ([]Task, error) {
	var tasks []Task
	err := c.do(ctx, http.MethodGet, "/projects/tasks/done", nil, &tasks)
	return tasks, err
}

func (c *Client) CreateTask(ctx context.Context, projectID string, payload TaskPayload) (*Task, error) {
	var task Task
	err := c.do(ctx, http.MethodPost, pathf("/projects/%s/tasks", projectID), payload, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, projectID, taskID string, payload TaskPayload) (*Task, error) {
	var task Task
	err := c.do(ctx, http.MethodPut, pathf("/projects/%s/tasks/%s", projectID, taskID), payload, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, projectID, taskID string) error {
	return c.do(ctx, http.MethodDelete, pathf("/projects/%s/tasks/%s", projectID, taskID), nil, nil)
}

func (c *Client) CloseTask(ctx context.Context, projectID, taskID string) (*Task, error) {
	var task Task
	err := c.do(ctx, http.MethodPost, pathf("/projects/%s/tasks/%s/close", projectID, taskID), nil, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) ReopenTask(ctx context.Context, projectID, taskID string) (*Task, error) {
	var task Task
	err := c.do(ctx, http.MethodPost, pathf("/projects/%s/tasks/%s/reopen", projectID, taskID), nil, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateNote(ctx context.Context, projectID, taskID, body string) (*Note, error) {
	var note Note
	err := c.do(ctx, http.MethodPost, pathf("/projects/%s/tasks/%s/notes", projectID, taskID), map[string]string{
		"body": body,
	}, &note)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) UpdateNote(ctx context.Context, projectID string, noteID int64, body string) (*Note, error) {
	var note Note
	err := c.do(ctx, http.MethodPut, pathf("/projects/%s/notes/%s", projectID, noteID), map[string]string{
		"body": body,
	}, &note)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) DeleteNote(ctx context.Context, projectID string, noteID int64) error {
	return c.do(ctx, http.MethodDelete, pathf("/projects/%s/notes/%s", projectID, noteID), nil, nil)
}
