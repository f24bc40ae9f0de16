package services

import (
	"github.com/adanyl0v/go-task-tracker/internal/models"
)

type Action string

const (
	ActionViewProject   Action = "project.view"
	ActionUpdateProject Action = "project.update"
	ActionDeleteProject Action = "project.delete"
	ActionManageMembers Action = "project.members"
	ActionListTasks     Action = "task.list"
	ActionCreateTask    Action = "task.create"
	ActionUpdateTask    Action = "task.update"
	ActionDeleteTask    Action = "task.delete"
	ActionCloseTask     Action = "task.close"
	ActionReopenTask    Action = "task.reopen"
	ActionCreateNote    Action = "note.create"
	ActionUpdateNote    Action = "note.update"
	ActionDeleteNote    Action = "note.delete"
)

// Subject is what an action is performed on. Project is required by every
// rule except authenticated; Task and Note only by the rules naming them.
type Subject struct {
	UserID  string
	Project *models.Project
	Task    *models.Task
	Note    *models.Note
}

type rule func(s Subject) bool

func authenticated(s Subject) bool {
	return s.UserID != ""
}

func member(s Subject) bool {
	return s.Project != nil && s.Project.HasMember(s.UserID)
}

func projectOwner(s Subject) bool {
	return s.Project != nil && s.Project.IsOwner(s.UserID)
}

func projectOwnerOrTaskCreator(s Subject) bool {
	return projectOwner(s) || (s.Task != nil && s.Task.CreatedBy.ID == s.UserID)
}

func noteAuthor(s Subject) bool {
	return s.Note != nil && s.Note.Author.ID == s.UserID
}

func noteAuthorOrProjectOwner(s Subject) bool {
	return noteAuthor(s) || projectOwner(s)
}

type PolicyOptions struct {
	// CreateTaskRequiresMembership switches task creation from the
	// authenticated rule to the member rule.
	CreateTaskRequiresMembership bool
}

// Policy decides every access check of the services.
type Policy struct {
	rules map[Action]rule
}

func NewPolicy(opts PolicyOptions) *Policy {
	createTask := authenticated
	if opts.CreateTaskRequiresMembership {
		createTask = member
	}

	return &Policy{
		rules: map[Action]rule{
			ActionViewProject:   member,
			ActionUpdateProject: projectOwner,
			ActionDeleteProject: projectOwner,
			ActionManageMembers: projectOwner,
			ActionListTasks:     member,
			ActionCreateTask:    createTask,
			ActionUpdateTask:    member,
			ActionDeleteTask:    projectOwnerOrTaskCreator,
			ActionCloseTask:     member,
			ActionReopenTask:    member,
			ActionCreateNote:    member,
			ActionUpdateNote:    noteAuthor,
			ActionDeleteNote:    noteAuthorOrProjectOwner,
		},
	}
}

// Authorize returns ErrAccessDenied unless the rule for action allows the
// subject. Unknown actions are denied.
func (p *Policy) Authorize(action Action, subject Subject) error {
	allow, ok := p.rules[action]
	if !ok || subject.UserID == "" || !allow(subject) {
		return ErrAccessDenied
	}
	return nil
}
