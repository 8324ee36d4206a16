// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"aitodo/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for
// testing. Tasks are stored forest-shaped per goal, like the backend
// returns them.
type FakeService struct {
	mu        sync.Mutex
	goals     []service.Goal
	forests   map[int][]*service.Task // goalID -> roots
	reminders []service.Reminder
	nextID    int

	// Call recording
	pendingCalls  int
	MarkSentIDs   []int
	DismissedIDs  []int
	UpdateCalls   map[int][]service.TaskUpdate // taskID -> updates in order
	DeleteCalls   []int
	GoalTaskCalls int

	// Error injection for testing
	PendingRemindersErr error
	MarkSentErr         error
	DismissErr          error
	GoalsErr            error
	GoalTasksErr        error
	TaskErr             error
	CreateTaskErr       error
	UpdateTaskErr       error
	DeleteTaskErr       error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		forests:     make(map[int][]*service.Task),
		UpdateCalls: make(map[int][]service.TaskUpdate),
		nextID:      1000,
	}
}

// AddGoal adds a goal.
func (f *FakeService) AddGoal(id int, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.goals = append(f.goals, service.Goal{ID: id, Title: title})
	if _, ok := f.forests[id]; !ok {
		f.forests[id] = nil
	}
}

// AddReminder adds a reminder.
func (f *FakeService) AddReminder(r service.Reminder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, r)
}

// SetForest installs a goal's task forest.
func (f *FakeService) SetForest(goalID int, roots []*service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forests[goalID] = roots
}

// PendingCallCount reports how many times PendingReminders was called.
// Safe to read while a poller is running.
func (f *FakeService) PendingCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingCalls
}

// PendingReminders returns reminders still in pending status.
func (f *FakeService) PendingReminders(ctx context.Context) ([]service.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pendingCalls++
	if f.PendingRemindersErr != nil {
		return nil, f.PendingRemindersErr
	}
	var out []service.Reminder
	for _, r := range f.reminders {
		if r.Status == service.StatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

// MarkReminderSent records the call and transitions the reminder.
func (f *FakeService) MarkReminderSent(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MarkSentIDs = append(f.MarkSentIDs, id)
	if f.MarkSentErr != nil {
		return f.MarkSentErr
	}
	for i := range f.reminders {
		if f.reminders[i].ID == id {
			f.reminders[i].Status = service.StatusSent
			return nil
		}
	}
	return ErrNotFound
}

// DismissReminder records the call and transitions the reminder.
func (f *FakeService) DismissReminder(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DismissedIDs = append(f.DismissedIDs, id)
	if f.DismissErr != nil {
		return f.DismissErr
	}
	for i := range f.reminders {
		if f.reminders[i].ID == id {
			f.reminders[i].Status = service.StatusDismissed
			return nil
		}
	}
	return ErrNotFound
}

// Goals returns all goals.
func (f *FakeService) Goals(ctx context.Context) ([]service.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GoalsErr != nil {
		return nil, f.GoalsErr
	}
	return append([]service.Goal(nil), f.goals...), nil
}

// GoalTasks returns a deep copy of the goal's forest, so callers
// mutating the returned tree don't corrupt the fake's state.
func (f *FakeService) GoalTasks(ctx context.Context, goalID int) ([]*service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GoalTaskCalls++
	if f.GoalTasksErr != nil {
		return nil, f.GoalTasksErr
	}
	roots, ok := f.forests[goalID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyTasks(roots), nil
}

// Task returns a single task by id.
func (f *FakeService) Task(ctx context.Context, id int) (*service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TaskErr != nil {
		return nil, f.TaskErr
	}
	for _, roots := range f.forests {
		if t := findTask(roots, id); t != nil {
			cp := copyTask(t)
			return cp, nil
		}
	}
	return nil, ErrNotFound
}

// CreateTask creates a task under a goal (or under a parent task).
func (f *FakeService) CreateTask(ctx context.Context, goalID int, t service.TaskCreate) (*service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateTaskErr != nil {
		return nil, f.CreateTaskErr
	}
	f.nextID++
	task := &service.Task{
		ID:          f.nextID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Tags:        t.Tags,
		ParentID:    t.ParentID,
		GoalID:      goalID,
	}
	if t.ParentID != nil {
		parent := findTask(f.forests[goalID], *t.ParentID)
		if parent == nil {
			return nil, ErrNotFound
		}
		parent.Subtasks = append(parent.Subtasks, task)
	} else {
		f.forests[goalID] = append(f.forests[goalID], task)
	}
	return copyTask(task), nil
}

// UpdateTask records the call and applies the update, reparenting when
// parent_id changes (mirroring the backend).
func (f *FakeService) UpdateTask(ctx context.Context, id int, upd service.TaskUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls[id] = append(f.UpdateCalls[id], upd)
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}

	for goalID, roots := range f.forests {
		task := findTask(roots, id)
		if task == nil {
			continue
		}
		if upd.Title != nil {
			task.Title = *upd.Title
		}
		if upd.Description != nil {
			task.Description = *upd.Description
		}
		if upd.Completed != nil {
			task.Completed = *upd.Completed
		}
		if upd.Priority != nil {
			task.Priority = *upd.Priority
		}
		if upd.DueDate != nil {
			task.DueDate = upd.DueDate
		}
		if upd.Tags != nil {
			task.Tags = upd.Tags
		}
		if upd.EstimatedMinutes != nil {
			task.EstimatedMinutes = *upd.EstimatedMinutes
		}
		if upd.ParentID != nil || upd.ClearParent {
			f.reparent(goalID, task, upd)
		}
		return nil
	}
	return ErrNotFound
}

// reparent detaches the task and reattaches it under the new parent
// (or at the root).
func (f *FakeService) reparent(goalID int, task *service.Task, upd service.TaskUpdate) {
	f.forests[goalID] = detachTask(f.forests[goalID], task.ID)
	if upd.ClearParent {
		task.ParentID = nil
		f.forests[goalID] = append(f.forests[goalID], task)
		return
	}
	task.ParentID = upd.ParentID
	if parent := findTask(f.forests[goalID], *upd.ParentID); parent != nil {
		parent.Subtasks = append(parent.Subtasks, task)
	}
}

// DeleteTask records the call and removes the task's subtree.
func (f *FakeService) DeleteTask(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls = append(f.DeleteCalls, id)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	for goalID, roots := range f.forests {
		if findTask(roots, id) != nil {
			f.forests[goalID] = detachTask(roots, id)
			return nil
		}
	}
	return ErrNotFound
}

// findTask searches a forest recursively.
func findTask(roots []*service.Task, id int) *service.Task {
	for _, t := range roots {
		if t.ID == id {
			return t
		}
		if found := findTask(t.Subtasks, id); found != nil {
			return found
		}
	}
	return nil
}

// detachTask removes the task with the given id from wherever it sits,
// returning the (possibly shortened) root slice.
func detachTask(roots []*service.Task, id int) []*service.Task {
	for i, t := range roots {
		if t.ID == id {
			return append(roots[:i], roots[i+1:]...)
		}
		t.Subtasks = detachTask(t.Subtasks, id)
	}
	return roots
}

func copyTasks(roots []*service.Task) []*service.Task {
	out := make([]*service.Task, len(roots))
	for i, t := range roots {
		out[i] = copyTask(t)
	}
	return out
}

func copyTask(t *service.Task) *service.Task {
	cp := *t
	cp.Tags = append([]string(nil), t.Tags...)
	cp.Subtasks = copyTasks(t.Subtasks)
	return &cp
}
