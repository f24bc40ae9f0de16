package store

import (
	"cmp"
	"slices"
	"time"

	"github.com/adanyl0v/go-task-tracker/internal/client"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var priorityRank = map[client.Priority]int{
	client.PriorityLow:    1,
	client.PriorityMedium: 2,
	client.PriorityHigh:   3,
}

// newCollator returns a collator comparing base letters only. A Collator
// is not safe for concurrent use, so callers create one per sort.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
}

// SortTasks returns a sorted copy of tasks. Unknown keys keep the input order.
func SortTasks(tasks []client.Task, by TaskSort) []client.Task {
	sorted := slices.Clone(tasks)

	var compare func(a, b client.Task) int
	switch by {
	case SortNewest:
		compare = func(a, b client.Task) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortOldest:
		compare = func(a, b client.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortAZ:
		c := newCollator()
		compare = func(a, b client.Task) int { return c.CompareString(a.Title, b.Title) }
	case SortZA:
		c := newCollator()
		compare = func(a, b client.Task) int { return c.CompareString(b.Title, a.Title) }
	case SortHighLow:
		compare = func(a, b client.Task) int {
			return cmp.Compare(priorityRank[b.Priority], priorityRank[a.Priority])
		}
	case SortLowHigh:
		compare = func(a, b client.Task) int {
			return cmp.Compare(priorityRank[a.Priority], priorityRank[b.Priority])
		}
	case SortClosed:
		compare = func(a, b client.Task) int { return recentFirst(a.ClosedAt, b.ClosedAt) }
	case SortReopened:
		compare = func(a, b client.Task) int { return recentFirst(a.ReopenedAt, b.ReopenedAt) }
	case SortUpdated:
		compare = func(a, b client.Task) int { return recentFirst(a.UpdatedAt, b.UpdatedAt) }
	case SortMostNotes:
		compare = func(a, b client.Task) int { return cmp.Compare(len(b.Notes), len(a.Notes)) }
	case SortLeastNotes:
		compare = func(a, b client.Task) int { return cmp.Compare(len(a.Notes), len(b.Notes)) }
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, compare)
	return sorted
}

// recentFirst orders later times first and nil times last.
func recentFirst(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return b.Compare(*a)
	}
}

type ProjectSort string

const (
	ProjectSortNewest       ProjectSort = "newest"
	ProjectSortOldest       ProjectSort = "oldest"
	ProjectSortAZ           ProjectSort = "a-z"
	ProjectSortZA           ProjectSort = "z-a"
	ProjectSortMostTasks    ProjectSort = "most-tasks"
	ProjectSortLeastTasks   ProjectSort = "least-tasks"
	ProjectSortMostMembers  ProjectSort = "most-members"
	ProjectSortLeastMembers ProjectSort = "least-members"
)

var ProjectSorts = []ProjectSort{
	ProjectSortNewest, ProjectSortOldest, ProjectSortAZ, ProjectSortZA,
	ProjectSortMostTasks, ProjectSortLeastTasks, ProjectSortMostMembers, ProjectSortLeastMembers,
}

// SortProjects returns a sorted copy of projects.
func SortProjects(projects []client.Project, by ProjectSort) []client.Project {
	sorted := slices.Clone(projects)

	var compare func(a, b client.Project) int
	switch by {
	case ProjectSortNewest:
		compare = func(a, b client.Project) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case ProjectSortOldest:
		compare = func(a, b client.Project) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case ProjectSortAZ:
		c := newCollator()
		compare = func(a, b client.Project) int { return c.CompareString(a.Name, b.Name) }
	case ProjectSortZA:
		c := newCollator()
		compare = func(a, b client.Project) int { return c.CompareString(b.Name, a.Name) }
	case ProjectSortMostTasks:
		compare = func(a, b client.Project) int { return cmp.Compare(len(b.Tasks), len(a.Tasks)) }
	case ProjectSortLeastTasks:
		compare = func(a, b client.Project) int { return cmp.Compare(len(a.Tasks), len(b.Tasks)) }
	case ProjectSortMostMembers:
		compare = func(a, b client.Project) int { return cmp.Compare(len(b.Members), len(a.Members)) }
	case ProjectSortLeastMembers:
		compare = func(a, b client.Project) int { return cmp.Compare(len(a.Members), len(b.Members)) }
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, compare)
	return sorted
}
