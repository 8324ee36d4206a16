package output

import (
	"bytes"
	"testing"
	"time"

	"aitodo/internal/service"
	"aitodo/internal/testutil"
)

func intPtr(i int) *int { return &i }

func TestFormatTaskTree(t *testing.T) {
	var buf bytes.Buffer
	FormatTaskTree(&buf, []*service.Task{
		{
			ID: 1, Title: "write report", Priority: service.PriorityHigh,
			Subtasks: []*service.Task{
				{
					ID: 2, Title: "gather sources", Completed: true, ParentID: intPtr(1),
					Subtasks: []*service.Task{
						{ID: 3, Title: "check archive", ParentID: intPtr(2)},
					},
				},
			},
		},
		{ID: 4, Title: "   "},
	})
	testutil.Golden(t, "task_tree", buf.Bytes())
}

func TestFormatTaskTreeEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTaskTree(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("empty forest should format to nothing, got %q", buf.String())
	}
}

func TestFormatReminder(t *testing.T) {
	at := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	FormatReminder(&buf, service.Reminder{
		ID:           12,
		Title:        "standup",
		Message:      "daily sync",
		ReminderTime: service.Time{Time: at},
	})
	FormatReminder(&buf, service.Reminder{
		ID:           340,
		Title:        "water\nplants",
		ReminderTime: service.Time{Time: at.Add(6 * time.Hour)},
	})
	testutil.Golden(t, "reminders", buf.Bytes())
}

func TestFormatGoal(t *testing.T) {
	var buf bytes.Buffer
	FormatGoal(&buf, service.Goal{ID: 7, Title: "Q3 planning"})
	if got := buf.String(); got != "   7  Q3 planning\n" {
		t.Errorf("FormatGoal = %q", got)
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"", "(untitled)"},
		{"  \n ", "(untitled)"},
		{"line1\nline2", "line1 line2"},
		{"a\r\nb", "a  b"},
	}
	for _, c := range cases {
		if got := normalizeTitle(c.in); got != c.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
