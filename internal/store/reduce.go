package store

import (
	"slices"

	"github.com/adanyl0v/go-task-tracker/internal/client"
)

// Reduce returns the state after action. It never mutates state: slices
// and maps it changes are copied first. Actions addressing an unknown
// project or task leave the tasks unchanged.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case SetTasks:
		state.Tasks = withProject(state.Tasks, a.ProjectID, slices.Clone(a.Tasks))
		state.FetchLoading = false
		state.FetchError = ""

	case AddTask:
		tasks := append(slices.Clone(state.Tasks[a.ProjectID]), a.Task)
		state.Tasks = withProject(state.Tasks, a.ProjectID, tasks)
		state.SubmitLoading = false
		state.SubmitError = ""

	case UpdateTask:
		state.Tasks = mapTask(state.Tasks, a.ProjectID, a.TaskID, func(task client.Task) client.Task {
			task.Title = a.Data.Title
			task.Description = a.Data.Description
			task.Priority = a.Data.Priority
			task.AssignedUsers = slices.Clone(a.Data.AssignedUsers)
			task.UpdatedAt = a.Data.UpdatedAt
			task.UpdatedBy = a.Data.UpdatedBy
			return task
		})
		state.SubmitLoading = false
		state.SubmitError = ""

	case RemoveTask:
		tasks, ok := state.Tasks[a.ProjectID]
		if !ok {
			return state
		}
		tasks = slices.DeleteFunc(slices.Clone(tasks), func(task client.Task) bool {
			return task.ID == a.TaskID
		})
		state.Tasks = withProject(state.Tasks, a.ProjectID, tasks)

	case UpdateTaskStatus:
		state.Tasks = mapTask(state.Tasks, a.ProjectID, a.TaskID, func(task client.Task) client.Task {
			task.IsResolved = a.Data.IsResolved
			task.ClosedAt = a.Data.ClosedAt
			task.ClosedBy = a.Data.ClosedBy
			task.ReopenedAt = a.Data.ReopenedAt
			task.ReopenedBy = a.Data.ReopenedBy
			return task
		})

	case AddNote:
		state.Tasks = mapTask(state.Tasks, a.ProjectID, a.TaskID, func(task client.Task) client.Task {
			task.Notes = append(slices.Clone(task.Notes), a.Note)
			return task
		})
		state.SubmitLoading = false
		state.SubmitError = ""

	case UpdateNote:
		if !hasTask(state.Tasks, a.ProjectID, a.TaskID) {
			return state
		}
		state.Tasks = mapTask(state.Tasks, a.ProjectID, a.TaskID, func(task client.Task) client.Task {
			notes := slices.Clone(task.Notes)
			for i := range notes {
				if notes[i].ID == a.NoteID {
					notes[i].Body = a.Body
					notes[i].UpdatedAt = a.UpdatedAt
				}
			}
			task.Notes = notes
			return task
		})
		state.SubmitLoading = false
		state.SubmitError = ""

	case RemoveNote:
		state.Tasks = mapTask(state.Tasks, a.ProjectID, a.TaskID, func(task client.Task) client.Task {
			task.Notes = slices.DeleteFunc(slices.Clone(task.Notes), func(note client.Note) bool {
				return note.ID == a.NoteID
			})
			return task
		})

	case SetFetchLoading:
		state.FetchLoading = true
		state.FetchError = ""

	case SetFetchError:
		state.FetchLoading = false
		state.FetchError = a.Message

	case SetSubmitLoading:
		state.SubmitLoading = true
		state.SubmitError = ""

	case SetSubmitError:
		state.SubmitLoading = false
		state.SubmitError = a.Message

	case ClearSubmitError:
		state.SubmitError = ""

	case SortTasksBy:
		state.SortBy = a.SortBy

	case FilterTasksBy:
		state.FilterBy = a.FilterBy

	case SetTasksDone:
		state.TasksDone = slices.Clone(a.Tasks)
		state.FetchLoading = false
	}

	return state
}

// withProject returns a copy of tasks with projectID set to list.
func withProject(tasks map[string][]client.Task, projectID string, list []client.Task) map[string][]client.Task {
	next := make(map[string][]client.Task, len(tasks)+1)
	for id, l := range tasks {
		next[id] = l
	}
	next[projectID] = list
	return next
}

func hasTask(tasks map[string][]client.Task, projectID, taskID string) bool {
	return slices.ContainsFunc(tasks[projectID], func(task client.Task) bool {
		return task.ID == taskID
	})
}

// mapTask applies fn to a copy of the matching task.
func mapTask(
	tasks map[string][]client.Task,
	projectID, taskID string,
	fn func(task client.Task) client.Task,
) map[string][]client.Task {
	if !hasTask(tasks, projectID, taskID) {
		return tasks
	}

	list := slices.Clone(tasks[projectID])
	for i := range list {
		if list[i].ID == taskID {
			list[i] = fn(list[i])
		}
	}
	return withProject(tasks, projectID, list)
}
