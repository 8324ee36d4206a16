// Package service defines the backend-agnostic interface for AI Todo
// backend operations.
package service

import (
	"encoding/json"
	"strings"
	"time"
)

// Time wraps time.Time to accept both RFC 3339 timestamps and the
// backend's naive ISO timestamps (no offset).
type Time struct {
	time.Time
}

const naiveISOLayout = "2006-01-02T15:04:05"

// UnmarshalJSON parses RFC 3339 first, then the naive ISO form.
func (t *Time) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.Parse(naiveISOLayout, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON emits RFC 3339, which the backend accepts.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// ReminderType is the recurrence kind of a reminder.
type ReminderType string

const (
	ReminderOneTime          ReminderType = "one_time"
	ReminderRecurringDaily   ReminderType = "recurring_daily"
	ReminderRecurringWeekly  ReminderType = "recurring_weekly"
	ReminderRecurringMonthly ReminderType = "recurring_monthly"
	ReminderSmart            ReminderType = "smart"
)

// ReminderStatus is the lifecycle state of a reminder.
// pending -> sent (delivered by this client) and pending -> dismissed
// (user action) are the only transitions; both are terminal.
type ReminderStatus string

const (
	StatusPending   ReminderStatus = "pending"
	StatusSent      ReminderStatus = "sent"
	StatusDismissed ReminderStatus = "dismissed"
)

// Priority is a task priority level.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Reminder is a scheduled alert tied to a task. Reminders are created
// on the backend; this client only reads pending ones and signals sent
// or dismissed.
type Reminder struct {
	ID           int            `json:"id"`
	Title        string         `json:"title"`
	Message      string         `json:"message,omitempty"`
	ReminderTime Time           `json:"reminder_time"`
	ReminderType ReminderType   `json:"reminder_type"`
	Status       ReminderStatus `json:"status"`
	TaskID       *int           `json:"task_id,omitempty"`
}

// Task is a node in a goal's task forest. ParentID is nil for root
// tasks. Subtasks are ordered.
type Task struct {
	ID               int        `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Completed        bool       `json:"completed"`
	Priority         Priority   `json:"priority,omitempty"`
	DueDate          *Time      `json:"due_date,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	EstimatedMinutes int        `json:"estimated_minutes,omitempty"`
	ParentID         *int       `json:"parent_id,omitempty"`
	GoalID           int        `json:"goal_id,omitempty"`
	Subtasks         []*Task    `json:"subtasks,omitempty"`
}

// Goal is a top-level goal owning a task forest. Goal CRUD lives in
// other surfaces of the product; this client only lists goals to pick a
// forest.
type Goal struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// TaskCreate carries the fields accepted when creating a task.
type TaskCreate struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ParentID    *int     `json:"parent_id,omitempty"`
}

// TaskUpdate carries a partial task update. Nil fields are left
// untouched by the backend; a non-nil empty Tags slice clears the tags.
type TaskUpdate struct {
	Title            *string    `json:"title,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Completed        *bool      `json:"completed,omitempty"`
	Priority         *Priority  `json:"priority,omitempty"`
	DueDate          *Time      `json:"due_date,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	ParentID         *int       `json:"parent_id,omitempty"`

	// ClearParent moves the task to the root of the forest. Encoded as
	// an explicit null parent_id on the wire.
	ClearParent bool `json:"-"`
}

// MarshalJSON emits an explicit null parent_id when ClearParent is set
// and an explicit empty array for a non-nil empty Tags slice, both of
// which omitempty would otherwise drop.
func (u TaskUpdate) MarshalJSON() ([]byte, error) {
	type alias TaskUpdate
	data, err := json.Marshal(alias(u))
	if err != nil {
		return nil, err
	}
	clearTags := u.Tags != nil && len(u.Tags) == 0
	if !u.ClearParent && !clearTags {
		return data, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if u.ClearParent {
		m["parent_id"] = json.RawMessage("null")
	}
	if clearTags {
		m["tags"] = json.RawMessage("[]")
	}
	return json.Marshal(m)
}
