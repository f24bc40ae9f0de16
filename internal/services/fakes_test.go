package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/storage"
)

// memStore implements every repository interface in memory with the same
// join and cascade behavior as the postgres backend.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	sessions map[string]*models.Session
	projects map[string]*models.Project
	members  []models.Member
	tasks    map[string]*models.Task
	assigned []models.Assigned
	notes    []models.Note
	nextID   int64
	seq      time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*models.User),
		sessions: make(map[string]*models.Session),
		projects: make(map[string]*models.Project),
		tasks:    make(map[string]*models.Task),
		seq:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) ref(userID string) models.UserRef {
	if u, ok := m.users[userID]; ok {
		return u.Ref()
	}
	return models.UserRef{ID: userID}
}

func (m *memStore) refPtr(ref *models.UserRef) *models.UserRef {
	if ref == nil {
		return nil
	}
	r := m.ref(ref.ID)
	return &r
}

func (m *memStore) usersExist(ids []string) bool {
	for _, id := range ids {
		if _, ok := m.users[id]; !ok {
			return false
		}
	}
	return true
}

// addUser is a fixture helper.
func (m *memStore) addUser(username string) models.UserRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	user := &models.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
	}
	m.users[user.ID] = user
	return user.Ref()
}

// UserRepository

func (m *memStore) InsertUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return storage.ErrAlreadyExists
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memStore) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) UsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]models.UserRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	refs := make([]models.UserRef, 0, len(m.users))
	for _, u := range m.users {
		refs = append(refs, u.Ref())
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Username < refs[j].Username })
	return refs, nil
}

// SessionRepository

func (m *memStore) ReplaceSessions(_ context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UserID == session.UserID {
			delete(m.sessions, id)
		}
	}
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *memStore) GetSessionByID(_ context.Context, sessionID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memStore) GetSessionByRefreshToken(_ context.Context, refreshToken string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.RefreshToken == refreshToken {
			copied := *s
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) RotateSession(_ context.Context, sessionID, refreshToken string, expiresAt, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return storage.ErrNotFound
	}
	s.RefreshToken = refreshToken
	s.ExpiresAt = expiresAt
	s.UpdatedAt = updatedAt
	return nil
}

func (m *memStore) DeleteSessionsByUserID(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

// ProjectRepository

func (m *memStore) InsertProject(_ context.Context, project *models.Project, memberIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := append([]string{project.CreatedBy.ID}, memberIDs...)
	if !m.usersExist(ids) {
		return storage.ErrInvalidReference
	}
	copied := *project
	copied.Members = nil
	m.projects[project.ID] = &copied
	m.insertMembers(project.ID, ids, project.CreatedAt)
	return nil
}

func (m *memStore) insertMembers(projectID string, userIDs []string, joinedAt time.Time) {
	for _, userID := range userIDs {
		exists := false
		for _, mem := range m.members {
			if mem.ProjectID == projectID && mem.User.ID == userID {
				exists = true
			}
		}
		if !exists {
			m.members = append(m.members, models.Member{
				ID:        m.id(),
				ProjectID: projectID,
				User:      models.UserRef{ID: userID},
				JoinedAt:  joinedAt,
			})
		}
	}
}

func (m *memStore) project(projectID string) (*models.Project, bool) {
	p, ok := m.projects[projectID]
	if !ok {
		return nil, false
	}
	copied := *p
	copied.CreatedBy = m.ref(p.CreatedBy.ID)
	copied.Members = nil
	for _, mem := range m.members {
		if mem.ProjectID == projectID {
			mem.User = m.ref(mem.User.ID)
			copied.Members = append(copied.Members, mem)
		}
	}
	copied.TaskIDs = nil
	for _, t := range m.sortedTasks() {
		if t.ProjectID == projectID {
			copied.TaskIDs = append(copied.TaskIDs, t.ID)
		}
	}
	return &copied, true
}

func (m *memStore) GetProjectByID(_ context.Context, projectID string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.project(projectID)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return p, nil
}

func (m *memStore) ListProjectsByMember(_ context.Context, userID string) ([]*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	projects := make([]*models.Project, 0)
	for id := range m.projects {
		p, _ := m.project(id)
		if p.HasMember(userID) {
			projects = append(projects, p)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.After(projects[j].CreatedAt) })
	return projects, nil
}

func (m *memStore) UpdateProjectName(_ context.Context, projectID, name string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return storage.ErrNotFound
	}
	p.Name = name
	p.UpdatedAt = updatedAt
	return nil
}

func (m *memStore) DeleteProject(_ context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[projectID]; !ok {
		return storage.ErrNotFound
	}
	for id, t := range m.tasks {
		if t.ProjectID == projectID {
			m.deleteTask(id)
		}
	}
	members := m.members[:0]
	for _, mem := range m.members {
		if mem.ProjectID != projectID {
			members = append(members, mem)
		}
	}
	m.members = members
	delete(m.projects, projectID)
	return nil
}

func (m *memStore) InsertMembers(_ context.Context, projectID string, userIDs []string, joinedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.usersExist(userIDs) {
		return storage.ErrInvalidReference
	}
	m.insertMembers(projectID, userIDs, joinedAt)
	return nil
}

func (m *memStore) DeleteMember(_ context.Context, projectID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	members := m.members[:0]
	for _, mem := range m.members {
		if mem.ProjectID == projectID && mem.User.ID == userID {
			found = true
			continue
		}
		members = append(members, mem)
	}
	m.members = members
	if !found {
		return storage.ErrNotFound
	}
	assigned := m.assigned[:0]
	for _, a := range m.assigned {
		if a.User.ID == userID && m.tasks[a.TaskID] != nil && m.tasks[a.TaskID].ProjectID == projectID {
			continue
		}
		assigned = append(assigned, a)
	}
	m.assigned = assigned
	return nil
}

// TaskRepository

func (m *memStore) sortedTasks() []*models.Task {
	tasks := make([]*models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	return tasks
}

func (m *memStore) joined(t *models.Task) *models.Task {
	copied := *t
	copied.CreatedBy = m.ref(t.CreatedBy.ID)
	copied.UpdatedBy = m.refPtr(t.UpdatedBy)
	copied.ClosedBy = m.refPtr(t.ClosedBy)
	copied.ReopenedBy = m.refPtr(t.ReopenedBy)
	copied.Notes = make([]models.Note, 0)
	for _, n := range m.notes {
		if n.TaskID == t.ID {
			n.Author = m.ref(n.Author.ID)
			copied.Notes = append(copied.Notes, n)
		}
	}
	copied.Assigned = make([]models.Assigned, 0)
	for _, a := range m.assigned {
		if a.TaskID == t.ID {
			a.User = m.ref(a.User.ID)
			copied.Assigned = append(copied.Assigned, a)
		}
	}
	return &copied
}

func (m *memStore) ListTasksByProject(_ context.Context, projectID string) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := make([]*models.Task, 0)
	for _, t := range m.sortedTasks() {
		if t.ProjectID == projectID {
			tasks = append(tasks, m.joined(t))
		}
	}
	return tasks, nil
}

func (m *memStore) ListAllTasks(_ context.Context) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := make([]*models.Task, 0)
	for _, t := range m.sortedTasks() {
		copied := *t
		tasks = append(tasks, &copied)
	}
	return tasks, nil
}

func (m *memStore) GetTaskByID(_ context.Context, taskID string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[taskID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return m.joined(t), nil
}

func (m *memStore) InsertTask(_ context.Context, task *models.Task, assigneeIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.usersExist(assigneeIDs) {
		return storage.ErrInvalidReference
	}
	copied := *task
	copied.Notes = nil
	copied.Assigned = nil
	// Keeps creation order stable for tasks created within the same tick.
	m.seq = m.seq.Add(time.Second)
	copied.CreatedAt = m.seq
	m.tasks[task.ID] = &copied
	m.insertAssigned(task.ID, assigneeIDs, copied.CreatedAt)
	return nil
}

func (m *memStore) insertAssigned(taskID string, userIDs []string, joinedAt time.Time) {
	for _, userID := range userIDs {
		m.assigned = append(m.assigned, models.Assigned{
			ID:       m.id(),
			TaskID:   taskID,
			User:     models.UserRef{ID: userID},
			JoinedAt: joinedAt,
		})
	}
}

func (m *memStore) UpdateTask(_ context.Context, task *models.Task, assigneeIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[task.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if !m.usersExist(assigneeIDs) {
		return storage.ErrInvalidReference
	}
	t.Title = task.Title
	t.Description = task.Description
	t.Priority = task.Priority
	t.UpdatedBy = task.UpdatedBy
	t.UpdatedAt = task.UpdatedAt
	m.deleteAssigned(task.ID)
	m.insertAssigned(task.ID, assigneeIDs, *task.UpdatedAt)
	return nil
}

func (m *memStore) deleteAssigned(taskID string) {
	assigned := m.assigned[:0]
	for _, a := range m.assigned {
		if a.TaskID != taskID {
			assigned = append(assigned, a)
		}
	}
	m.assigned = assigned
}

func (m *memStore) UpdateTaskStatus(_ context.Context, taskID string, apply func(task *models.Task) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[taskID]
	if !ok {
		return storage.ErrNotFound
	}
	working := *t
	err := apply(&working)
	if err != nil {
		return err
	}
	t.IsResolved = working.IsResolved
	t.ClosedBy = working.ClosedBy
	t.ClosedAt = working.ClosedAt
	t.ReopenedBy = working.ReopenedBy
	t.ReopenedAt = working.ReopenedAt
	return nil
}

func (m *memStore) DeleteTask(_ context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[taskID]; !ok {
		return storage.ErrNotFound
	}
	m.deleteTask(taskID)
	return nil
}

func (m *memStore) deleteTask(taskID string) {
	notes := m.notes[:0]
	for _, n := range m.notes {
		if n.TaskID != taskID {
			notes = append(notes, n)
		}
	}
	m.notes = notes
	m.deleteAssigned(taskID)
	delete(m.tasks, taskID)
}

// NoteRepository

func (m *memStore) InsertNote(_ context.Context, note *models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[note.TaskID]; !ok {
		return storage.ErrInvalidReference
	}
	note.ID = m.id()
	copied := *note
	m.notes = append(m.notes, copied)
	return nil
}

func (m *memStore) GetNoteByID(_ context.Context, noteID int64) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notes {
		if n.ID == noteID {
			n.Author = m.ref(n.Author.ID)
			n.ProjectID = m.tasks[n.TaskID].ProjectID
			return &n, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) UpdateNoteBody(_ context.Context, noteID int64, body string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notes {
		if m.notes[i].ID == noteID {
			m.notes[i].Body = body
			m.notes[i].UpdatedAt = updatedAt
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memStore) DeleteNote(_ context.Context, noteID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.notes {
		if n.ID == noteID {
			m.notes = append(m.notes[:i], m.notes[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memStore) countNotes(taskID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.notes {
		if n.TaskID == taskID {
			count++
		}
	}
	return count
}

func (m *memStore) countAssigned(taskID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, a := range m.assigned {
		if a.TaskID == taskID {
			count++
		}
	}
	return count
}

// fixture wires every service to one memStore.
type fixture struct {
	store    *memStore
	auth     AuthService
	sessions SessionService
	users    UserService
	projects ProjectService
	tasks    TaskService
	notes    NoteService
}

var testHashParams = &argon2id.Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func newFixture(t *testing.T, opts PolicyOptions) *fixture {
	t.Helper()
	logger := zerolog.Nop()
	store := newMemStore()
	policy := NewPolicy(opts)
	return &fixture{
		store: store,
		auth: NewAuthService(logger, store, store, AuthServiceOptions{
			JWTIssuer:          "test",
			JWTSigningKey:      []byte("test-signing-key"),
			JWTAccessTokenTTL:  time.Minute,
			JWTRefreshTokenTTL: time.Hour,
			HashParams:         testHashParams,
		}),
		sessions: NewSessionService(logger, store),
		users:    NewUserService(logger, store),
		projects: NewProjectService(logger, policy, store),
		tasks:    NewTaskService(logger, policy, store, store),
		notes:    NewNoteService(logger, policy, store, store, store),
	}
}
