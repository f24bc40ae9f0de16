package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

type projectFixture struct {
	*fixture
	owner    models.UserRef
	member   models.UserRef
	outsider models.UserRef
	project  *models.Project
}

func newProjectFixture(t *testing.T, opts PolicyOptions) *projectFixture {
	t.Helper()
	f := newFixture(t, opts)
	pf := &projectFixture{
		fixture:  f,
		owner:    f.store.addUser("owner"),
		member:   f.store.addUser("member"),
		outsider: f.store.addUser("outsider"),
	}

	project, err := f.projects.CreateProject(context.Background(), CreateProjectParams{
		UserID:    pf.owner.ID,
		Name:      "Tracker",
		MemberIDs: []string{pf.member.ID},
	})
	require.NoError(t, err)
	pf.project = project
	return pf
}

func (pf *projectFixture) createTask(t *testing.T, by models.UserRef, title string, assignees ...string) *models.Task {
	t.Helper()
	task, err := pf.tasks.CreateTask(context.Background(), CreateTaskParams{
		UserID:      by.ID,
		ProjectID:   pf.project.ID,
		Title:       title,
		Description: "something to do",
		Priority:    models.PriorityMedium,
		AssigneeIDs: assignees,
	})
	require.NoError(t, err)
	return task
}

func (pf *projectFixture) taskParams(by models.UserRef, taskID string) TaskParams {
	return TaskParams{UserID: by.ID, ProjectID: pf.project.ID, TaskID: taskID}
}

func TestCreateTaskPopulatesJoins(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})

	task := pf.createTask(t, pf.member, "Write docs", pf.owner.ID)

	assert.Equal(t, pf.project.ID, task.ProjectID)
	assert.False(t, task.IsResolved)
	assert.Equal(t, pf.member, task.CreatedBy)
	assert.Nil(t, task.UpdatedBy)
	assert.Nil(t, task.ClosedBy)
	assert.Nil(t, task.ReopenedBy)
	assert.Empty(t, task.Notes)
	require.Len(t, task.Assigned, 1)
	assert.Equal(t, pf.owner, task.Assigned[0].User)
}

func TestCreateTaskTitleLength(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{name: "too short", length: 2, wantErr: true},
		{name: "shortest", length: 3},
		{name: "longest", length: 60},
		{name: "too long", length: 61, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := newProjectFixture(t, PolicyOptions{})

			_, err := pf.tasks.CreateTask(context.Background(), CreateTaskParams{
				UserID:      pf.member.ID,
				ProjectID:   pf.project.ID,
				Title:       strings.Repeat("a", tt.length),
				Description: "description",
				Priority:    models.PriorityLow,
			})
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "title must be in range of 3-60 characters length", validationErr.Message)
		})
	}
}

func TestCreateTaskValidation(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})

	tests := []struct {
		name    string
		params  CreateTaskParams
		message string
	}{
		{
			name:    "blank description",
			params:  CreateTaskParams{Title: "Valid", Description: "   ", Priority: models.PriorityLow},
			message: "description field must not be empty",
		},
		{
			name:    "unknown priority",
			params:  CreateTaskParams{Title: "Valid", Description: "desc", Priority: "urgent"},
			message: "priority can only be - low, medium or high",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.UserID = pf.member.ID
			tt.params.ProjectID = pf.project.ID

			_, err := pf.tasks.CreateTask(context.Background(), tt.params)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.message, validationErr.Message)
		})
	}
}

func TestCreateTaskInvalidAssignee(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})
	ctx := context.Background()

	for _, id := range []string{"not-a-uuid", uuid.NewString()} {
		_, err := pf.tasks.CreateTask(ctx, CreateTaskParams{
			UserID:      pf.member.ID,
			ProjectID:   pf.project.ID,
			Title:       "Valid",
			Description: "desc",
			Priority:    models.PriorityHigh,
			AssigneeIDs: []string{id},
		})
		assert.ErrorIs(t, err, ErrInvalidUserID, id)
	}
}

func TestCreateTaskByNonMember(t *testing.T) {
	t.Run("allowed by default", func(t *testing.T) {
		pf := newProjectFixture(t, PolicyOptions{})

		task := pf.createTask(t, pf.outsider, "Outside help")
		assert.Equal(t, pf.outsider.ID, task.CreatedBy.ID)

		_, err := pf.tasks.ListTasks(context.Background(), pf.outsider.ID, pf.project.ID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("denied when membership is required", func(t *testing.T) {
		pf := newProjectFixture(t, PolicyOptions{CreateTaskRequiresMembership: true})

		_, err := pf.tasks.CreateTask(context.Background(), CreateTaskParams{
			UserID:      pf.outsider.ID,
			ProjectID:   pf.project.ID,
			Title:       "Outside help",
			Description: "desc",
			Priority:    models.PriorityLow,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestTaskOperationsDenyNonMembers(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})
	ctx := context.Background()
	task := pf.createTask(t, pf.member, "Members only")

	_, err := pf.tasks.ListTasks(ctx, pf.outsider.ID, pf.project.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = pf.tasks.UpdateTask(ctx, UpdateTaskParams{
		UserID:      pf.outsider.ID,
		ProjectID:   pf.project.ID,
		TaskID:      task.ID,
		Title:       "Hijacked",
		Description: "desc",
		Priority:    models.PriorityLow,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = pf.tasks.CloseTask(ctx, pf.taskParams(pf.outsider, task.ID))
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = pf.tasks.ReopenTask(ctx, pf.taskParams(pf.outsider, task.ID))
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = pf.tasks.DeleteTask(ctx, pf.taskParams(pf.outsider, task.ID))
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestListTasksUnknownProject(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})

	_, err := pf.tasks.ListTasks(context.Background(), pf.member.ID, uuid.NewString())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestTaskUnderWrongProject(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})
	ctx := context.Background()
	task := pf.createTask(t, pf.member, "Stray task")

	other, err := pf.projects.CreateProject(ctx, CreateProjectParams{UserID: pf.member.ID, Name: "Other"})
	require.NoError(t, err)

	_, err = pf.tasks.CloseTask(ctx, TaskParams{UserID: pf.member.ID, ProjectID: other.ID, TaskID: task.ID})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCloseAndReopenTask(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})
	ctx := context.Background()
	task := pf.createTask(t, pf.member, "Ship it")

	closed, err := pf.tasks.CloseTask(ctx, pf.taskParams(pf.member, task.ID))
	require.NoError(t, err)
	assert.True(t, closed.IsResolved)
	require.NotNil(t, closed.ClosedBy)
	assert.Equal(t, pf.member, *closed.ClosedBy)
	assert.NotNil(t, closed.ClosedAt)
	assert.Nil(t, closed.ReopenedBy)
	assert.Nil(t, closed.ReopenedAt)

	_, err = pf.tasks.CloseTask(ctx, pf.taskParams(pf.owner, task.ID))
	assert.ErrorIs(t, err, ErrTaskAlreadyClosed)

	unchanged, err := pf.store.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, pf.member, *unchanged.ClosedBy)

	reopened, err := pf.tasks.ReopenTask(ctx, pf.taskParams(pf.owner, task.ID))
	require.NoError(t, err)
	assert.False(t, reopened.IsResolved)
	assert.Nil(t, reopened.ClosedBy)
	assert.Nil(t, reopened.ClosedAt)
	require.NotNil(t, reopened.ReopenedBy)
	assert.Equal(t, pf.owner, *reopened.ReopenedBy)
	assert.NotNil(t, reopened.ReopenedAt)

	_, err = pf.tasks.ReopenTask(ctx, pf.taskParams(pf.owner, task.ID))
	assert.ErrorIs(t, err, ErrTaskAlreadyOpened)
}

func TestReopenFreshTask(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})
	task := pf.createTask(t, pf.member, "Never closed")

	_, err := pf.tasks.ReopenTask(context.Background(), pf.taskParams(pf.member, task.ID))
	assert.ErrorIs(t, err, ErrTaskAlreadyOpened)
}

func TestUpdateTaskReplacesAssignees(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})
	ctx := context.Background()
	task := pf.createTask(t, pf.member, "Pair on it", pf.owner.ID)

	update := func(assignees ...string) *models.Task {
		t.Helper()
		updated, err := pf.tasks.UpdateTask(ctx, UpdateTaskParams{
			UserID:      pf.member.ID,
			ProjectID:   pf.project.ID,
			TaskID:      task.ID,
			Title:       "Pair on it",
			Description: "together",
			Priority:    models.PriorityHigh,
			AssigneeIDs: assignees,
		})
		require.NoError(t, err)
		return updated
	}

	updated := update(pf.owner.ID, pf.member.ID, pf.owner.ID)
	assert.ElementsMatch(t, []string{pf.owner.ID, pf.member.ID}, updated.AssigneeIDs())
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, "together", updated.Description)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, pf.member, *updated.UpdatedBy)
	assert.NotNil(t, updated.UpdatedAt)

	updated = update()
	assert.Empty(t, updated.Assigned)
	assert.Zero(t, pf.store.countAssigned(task.ID))
}

func TestUpdateTaskKeepsStatus(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})
	ctx := context.Background()
	task := pf.createTask(t, pf.member, "Done already")

	_, err := pf.tasks.CloseTask(ctx, pf.taskParams(pf.member, task.ID))
	require.NoError(t, err)

	updated, err := pf.tasks.UpdateTask(ctx, UpdateTaskParams{
		UserID:      pf.owner.ID,
		ProjectID:   pf.project.ID,
		TaskID:      task.ID,
		Title:       "Done already",
		Description: "edited",
		Priority:    models.PriorityLow,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsResolved)
	assert.Equal(t, pf.member, *updated.ClosedBy)
}

func TestDeleteTaskCascades(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})
	ctx := context.Background()
	task := pf.createTask(t, pf.member, "Short lived", pf.owner.ID)

	_, err := pf.notes.CreateNote(ctx, CreateNoteParams{
		UserID:    pf.owner.ID,
		ProjectID: pf.project.ID,
		TaskID:    task.ID,
		Body:      "first",
	})
	require.NoError(t, err)
	require.Equal(t, 1, pf.store.countNotes(task.ID))

	require.NoError(t, pf.tasks.DeleteTask(ctx, pf.taskParams(pf.member, task.ID)))

	assert.Zero(t, pf.store.countNotes(task.ID))
	assert.Zero(t, pf.store.countAssigned(task.ID))

	tasks, err := pf.tasks.ListTasks(ctx, pf.member.ID, pf.project.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	err = pf.tasks.DeleteTask(ctx, pf.taskParams(pf.member, task.ID))
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTaskPermissions(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})
	ctx := context.Background()
	second := pf.store.addUser("second")
	_, err := pf.projects.AddMembers(ctx, AddMembersParams{
		UserID:    pf.owner.ID,
		ProjectID: pf.project.ID,
		MemberIDs: []string{second.ID},
	})
	require.NoError(t, err)

	byMember := pf.createTask(t, pf.member, "Created by member")

	err = pf.tasks.DeleteTask(ctx, pf.taskParams(second, byMember.ID))
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.NoError(t, pf.tasks.DeleteTask(ctx, pf.taskParams(pf.member, byMember.ID)))

	another := pf.createTask(t, pf.member, "Owner removes it")
	assert.NoError(t, pf.tasks.DeleteTask(ctx, pf.taskParams(pf.owner, another.ID)))
}

func TestListTasksOrderAndJoins(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})
	ctx := context.Background()
	first := pf.createTask(t, pf.member, "First")
	second := pf.createTask(t, pf.owner, "Second", pf.member.ID)

	_, err := pf.notes.CreateNote(ctx, CreateNoteParams{
		UserID:    pf.member.ID,
		ProjectID: pf.project.ID,
		TaskID:    second.ID,
		Body:      "looks good",
	})
	require.NoError(t, err)

	tasks, err := pf.tasks.ListTasks(ctx, pf.member.ID, pf.project.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)
	require.Len(t, tasks[1].Notes, 1)
	assert.Equal(t, pf.member, tasks[1].Notes[0].Author)
	assert.Equal(t, []string{pf.member.ID}, tasks[1].AssigneeIDs())
}

func TestListAllTasks(t *testing.T) {
	pf := newProjectFixture(t, PolicyOptions{})
	pf.createTask(t, pf.member, "One")
	pf.createTask(t, pf.owner, "Two")

	tasks, err := pf.tasks.ListAllTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}
