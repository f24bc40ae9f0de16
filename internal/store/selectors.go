package store

import (
	"slices"

	"github.com/adanyl0v/go-task-tracker/internal/client"
)

// FilterTasks returns the tasks matching filter, in input order.
func FilterTasks(tasks []client.Task, filter TaskFilter) []client.Task {
	switch filter {
	case FilterClosed:
		return slices.DeleteFunc(slices.Clone(tasks), func(t client.Task) bool { return !t.IsResolved })
	case FilterOpen:
		return slices.DeleteFunc(slices.Clone(tasks), func(t client.Task) bool { return t.IsResolved })
	default:
		return slices.Clone(tasks)
	}
}

func TasksByProject(state State, projectID string) []client.Task {
	return state.Tasks[projectID]
}

func TaskByID(state State, projectID, taskID string) (client.Task, bool) {
	i := slices.IndexFunc(state.Tasks[projectID], func(t client.Task) bool {
		return t.ID == taskID
	})
	if i < 0 {
		return client.Task{}, false
	}
	return state.Tasks[projectID][i], true
}

// VisibleTasks filters the project's tasks by state.FilterBy and then sorts
// them by state.SortBy.
func VisibleTasks(state State, projectID string) []client.Task {
	return SortTasks(FilterTasks(state.Tasks[projectID], state.FilterBy), state.SortBy)
}
