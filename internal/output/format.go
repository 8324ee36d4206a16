// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"aitodo/internal/service"
)

// FormatTaskTree writes the forest as an indented tree, two spaces per
// nesting level.
// Format: "{INDENT}[x|' '] {ID:>4}  {TITLE}{SUFFIX}\n"
func FormatTaskTree(w io.Writer, roots []*service.Task) {
	for _, t := range roots {
		formatTask(w, t, 0)
	}
}

func formatTask(w io.Writer, t *service.Task, depth int) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s[%s] %4d  %s%s\n", indent, mark, t.ID, normalizeTitle(t.Title), taskSuffix(t))
	for _, sub := range t.Subtasks {
		formatTask(w, sub, depth+1)
	}
}

// taskSuffix appends the priority marker for high-priority tasks.
func taskSuffix(t *service.Task) string {
	if t.Priority == service.PriorityHigh {
		return " !"
	}
	return ""
}

// FormatReminder formats one reminder line.
// Format: "{ID:>4}  {TIME}  {TITLE}[: MESSAGE]\n"
func FormatReminder(w io.Writer, r service.Reminder) {
	line := fmt.Sprintf("%4d  %s  %s", r.ID, r.ReminderTime.Format("2006-01-02 15:04"), normalizeTitle(r.Title))
	if strings.TrimSpace(r.Message) != "" {
		line += ": " + normalizeTitle(r.Message)
	}
	fmt.Fprintln(w, line)
}

// FormatGoal formats one goal line.
func FormatGoal(w io.Writer, g service.Goal) {
	fmt.Fprintf(w, "%4d  %s\n", g.ID, normalizeTitle(g.Title))
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
