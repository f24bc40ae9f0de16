package v1

import (
	"time"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type authResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func newAuthResponse(result *services.AuthResult) authResponse {
	return authResponse{
		ID:           result.User.ID,
		Username:     result.User.Username,
		Email:        result.User.Email,
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    result.AccessTokenExpiresAt,
	}
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

type memberResponse struct {
	ID       int64          `json:"id"`
	JoinedAt time.Time      `json:"joinedAt"`
	User     models.UserRef `json:"user"`
}

func newMemberResponses(members []models.Member) []memberResponse {
	resp := make([]memberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, memberResponse{
			ID:       m.ID,
			JoinedAt: m.JoinedAt,
			User:     m.User,
		})
	}
	return resp
}

type projectResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedBy models.UserRef   `json:"createdBy"`
	Members   []memberResponse `json:"members"`
	Tasks     []string         `json:"tasks"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func newProjectResponse(project *models.Project) projectResponse {
	taskIDs := project.TaskIDs
	if taskIDs == nil {
		taskIDs = []string{}
	}
	return projectResponse{
		ID:        project.ID,
		Name:      project.Name,
		CreatedBy: project.CreatedBy,
		Members:   newMemberResponses(project.Members),
		Tasks:     taskIDs,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}

type noteResponse struct {
	ID        int64          `json:"id"`
	TaskID    string         `json:"taskId"`
	Body      string         `json:"body"`
	Author    models.UserRef `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func newNoteResponse(note *models.Note) noteResponse {
	return noteResponse{
		ID:        note.ID,
		TaskID:    note.TaskID,
		Body:      note.Body,
		Author:    note.Author,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

type assignedResponse struct {
	ID       int64          `json:"id"`
	JoinedAt time.Time      `json:"joinedAt"`
	User     models.UserRef `json:"user"`
}

// taskResponse is the joined task. The raw listing leaves the user
// references except createdBy, notes and assignees empty.
type taskResponse struct {
	ID            string             `json:"id"`
	ProjectID     string             `json:"projectId"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Priority      models.Priority    `json:"priority"`
	IsResolved    bool               `json:"isResolved"`
	CreatedBy     models.UserRef     `json:"createdBy"`
	UpdatedBy     *models.UserRef    `json:"updatedBy"`
	ClosedBy      *models.UserRef    `json:"closedBy"`
	ClosedAt      *time.Time         `json:"closedAt"`
	ReopenedBy    *models.UserRef    `json:"reopenedBy"`
	ReopenedAt    *time.Time         `json:"reopenedAt"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     *time.Time         `json:"updatedAt"`
	Notes         []noteResponse     `json:"notes"`
	AssignedUsers []assignedResponse `json:"assignedUsers"`
}

func newTaskResponse(task *models.Task) taskResponse {
	notes := make([]noteResponse, 0, len(task.Notes))
	for i := range task.Notes {
		notes = append(notes, newNoteResponse(&task.Notes[i]))
	}

	assigned := make([]assignedResponse, 0, len(task.Assigned))
	for _, a := range task.Assigned {
		assigned = append(assigned, assignedResponse{
			ID:       a.ID,
			JoinedAt: a.JoinedAt,
			User:     a.User,
		})
	}

	return taskResponse{
		ID:            task.ID,
		ProjectID:     task.ProjectID,
		Title:         task.Title,
		Description:   task.Description,
		Priority:      task.Priority,
		IsResolved:    task.IsResolved,
		CreatedBy:     task.CreatedBy,
		UpdatedBy:     task.UpdatedBy,
		ClosedBy:      task.ClosedBy,
		ClosedAt:      task.ClosedAt,
		ReopenedBy:    task.ReopenedBy,
		ReopenedAt:    task.ReopenedAt,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
		Notes:         notes,
		AssignedUsers: assigned,
	}
}

func newTaskResponses(tasks []*models.Task) []taskResponse {
	resp := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, newTaskResponse(task))
	}
	return resp
}
