package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/adanyl0v/go-task-tracker/internal/client"
	"github.com/adanyl0v/go-task-tracker/internal/store"
)

const timeLayout = "2006-01-02 15:04"

type styles struct {
	heading  lipgloss.Style
	muted    lipgloss.Style
	open     lipgloss.Style
	closed   lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
	priority map[client.Priority]lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		heading: r.NewStyle().Bold(true).Underline(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("244")),
		open:    r.NewStyle().Foreground(lipgloss.Color("39")),
		closed:  r.NewStyle().Foreground(lipgloss.Color("70")).Strikethrough(true),
		success: r.NewStyle().Foreground(lipgloss.Color("70")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		priority: map[client.Priority]lipgloss.Style{
			client.PriorityHigh:   r.NewStyle().Foreground(lipgloss.Color("196")),
			client.PriorityMedium: r.NewStyle().Foreground(lipgloss.Color("214")),
			client.PriorityLow:    r.NewStyle().Foreground(lipgloss.Color("244")),
		},
	}
}

func (s styles) printNotification(w io.Writer, n store.Notification) {
	style := s.success
	if n.Kind == store.NotificationError {
		style = s.failure
	}
	_, _ = fmt.Fprintln(w, style.Render(n.Message))
}

func (s styles) renderTasks(tasks []client.Task) string {
	if len(tasks) == 0 {
		return s.muted.Render("No tasks.")
	}

	rows := make([]string, 0, len(tasks)+1)
	rows = append(rows, s.heading.Render(fmt.Sprintf("%-36s  %-6s  %-6s  %s", "ID", "STATE", "PRIO", "TITLE")))
	for _, task := range tasks {
		state, stateStyle := "open", s.open
		if task.IsResolved {
			state, stateStyle = "closed", s.closed
		}

		meta := []string{"by " + task.CreatedBy.Username, task.CreatedAt.Local().Format(timeLayout)}
		if n := len(task.Notes); n > 0 {
			meta = append(meta, plural(n, "note"))
		}
		if len(task.AssignedUsers) > 0 {
			names := make([]string, 0, len(task.AssignedUsers))
			for _, a := range task.AssignedUsers {
				names = append(names, a.User.Username)
			}
			meta = append(meta, "assigned "+strings.Join(names, ", "))
		}

		rows = append(rows, fmt.Sprintf("%-36s  %s  %s  %s %s",
			task.ID,
			stateStyle.Render(fmt.Sprintf("%-6s", state)),
			s.priority[task.Priority].Render(fmt.Sprintf("%-6s", task.Priority)),
			task.Title,
			s.muted.Render("("+strings.Join(meta, "; ")+")"),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (s styles) renderTask(task client.Task) string {
	lines := []string{
		s.heading.Render(task.Title),
		s.muted.Render(task.ID),
		"Priority: " + s.priority[task.Priority].Render(string(task.Priority)),
		"Created:  " + task.CreatedAt.Local().Format(timeLayout) + " by " + task.CreatedBy.Username,
	}
	if task.Description != "" {
		lines = append(lines, "", task.Description)
	}
	if task.IsResolved && task.ClosedBy != nil {
		lines = append(lines, s.closed.Render("Closed "+formatTime(task.ClosedAt)+" by "+task.ClosedBy.Username))
	}
	if task.ReopenedBy != nil {
		lines = append(lines, "Re-opened "+formatTime(task.ReopenedAt)+" by "+task.ReopenedBy.Username)
	}
	for _, note := range task.Notes {
		lines = append(lines, fmt.Sprintf("  #%d %s: %s", note.ID, note.Author.Username, note.Body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (s styles) renderProjects(projects []client.Project) string {
	if len(projects) == 0 {
		return s.muted.Render("No projects.")
	}

	rows := make([]string, 0, len(projects)+1)
	rows = append(rows, s.heading.Render(fmt.Sprintf("%-36s  %s", "ID", "NAME")))
	for _, p := range projects {
		rows = append(rows, fmt.Sprintf("%-36s  %s %s",
			p.ID,
			p.Name,
			s.muted.Render(fmt.Sprintf("(%s; %s; owner %s)",
				plural(len(p.Tasks), "task"), plural(len(p.Members), "member"), p.CreatedBy.Username)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
