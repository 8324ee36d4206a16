// Package service defines the backend-agnostic interface for AI Todo
// backend operations.
package service

import "context"

// Service defines the interface for backend operations.
// All HTTP calls go through this interface; the engines and commands
// never import the REST client directly.
type Service interface {
	// PendingReminders returns all reminders currently in pending status.
	PendingReminders(ctx context.Context) ([]Reminder, error)

	// MarkReminderSent transitions a reminder to sent.
	MarkReminderSent(ctx context.Context, id int) error

	// DismissReminder transitions a reminder to dismissed.
	DismissReminder(ctx context.Context, id int) error

	// Goals returns all goals.
	Goals(ctx context.Context) ([]Goal, error)

	// GoalTasks returns the task forest for a goal. Each task carries
	// its nested subtasks; root tasks have a nil parent reference.
	GoalTasks(ctx context.Context, goalID int) ([]*Task, error)

	// Task returns a single task by id.
	Task(ctx context.Context, id int) (*Task, error)

	// CreateTask creates a task under a goal.
	CreateTask(ctx context.Context, goalID int, t TaskCreate) (*Task, error)

	// UpdateTask applies a partial update to a task. Reparenting is an
	// update of parent_id.
	UpdateTask(ctx context.Context, id int, upd TaskUpdate) error

	// DeleteTask deletes a task. The backend cascades the deletion to
	// the task's subtree.
	DeleteTask(ctx context.Context, id int) error
}
