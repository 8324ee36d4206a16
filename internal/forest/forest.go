// Package forest owns the in-memory tree of tasks for one goal and the
// mutation operations the UI surfaces call: completion toggle, edit,
// delete, and reparent with cycle prevention.
package forest

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"aitodo/internal/service"
)

var (
	// ErrNotFound is returned when a task id is not in the forest.
	ErrNotFound = errors.New("task not found")

	// ErrSelfParent is returned by Reparent when a task is moved under
	// itself. Checked before validation runs.
	ErrSelfParent = errors.New("cannot move a task under itself")

	// ErrCycle is returned by Reparent when the target parent sits in
	// the moved task's subtree.
	ErrCycle = errors.New("cannot move a task under its own descendant")
)

// Forest holds the root tasks of one goal, each carrying its nested
// subtasks, plus an id index with parent pointers so lookups don't
// re-walk the tree.
type Forest struct {
	svc    service.Service
	goalID int
	logger *slog.Logger

	mu      sync.Mutex
	roots   []*service.Task
	nodes   map[int]*service.Task
	parents map[int]*service.Task // nil entry for roots
}

// New creates an empty forest for a goal. Call Load to populate it.
func New(svc service.Service, goalID int, logger *slog.Logger) *Forest {
	if logger == nil {
		logger = slog.Default()
	}
	return &Forest{
		svc:     svc,
		goalID:  goalID,
		logger:  logger,
		nodes:   make(map[int]*service.Task),
		parents: make(map[int]*service.Task),
	}
}

// GoalID returns the goal this forest belongs to.
func (f *Forest) GoalID() int { return f.goalID }

// Load fetches the goal's tasks and rebuilds the forest and its index.
func (f *Forest) Load(ctx context.Context) error {
	tasks, err := f.svc.GoalTasks(ctx, f.goalID)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.setForest(tasks)
	return nil
}

// setForest installs a fetched task list. The backend returns every
// task of the goal at the top level with subtasks also nested, so only
// parentless tasks become roots; their nested subtrees carry the rest.
func (f *Forest) setForest(tasks []*service.Task) {
	f.roots = f.roots[:0]
	for _, t := range tasks {
		if t.ParentID == nil {
			f.roots = append(f.roots, t)
		}
	}
	f.reindex()
}

// reindex rebuilds the id index and parent pointers, visiting every
// node exactly once.
func (f *Forest) reindex() {
	f.nodes = make(map[int]*service.Task)
	f.parents = make(map[int]*service.Task)

	type frame struct {
		node   *service.Task
		parent *service.Task
	}
	stack := make([]frame, 0, len(f.roots))
	for _, r := range f.roots {
		stack = append(stack, frame{node: r})
	}
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		f.nodes[fr.node.ID] = fr.node
		f.parents[fr.node.ID] = fr.parent
		for _, sub := range fr.node.Subtasks {
			stack = append(stack, frame{node: sub, parent: fr.node})
		}
	}
}

// Roots returns the root tasks. The returned slice is a copy; the
// nodes are shared.
func (f *Forest) Roots() []*service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*service.Task, len(f.roots))
	copy(out, f.roots)
	return out
}

// Find returns the task with the given id, wherever it sits in the
// forest.
func (f *Forest) Find(id int) (*service.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.nodes[id]
	return t, ok
}

// Len returns the number of tasks in the forest.
func (f *Forest) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.nodes)
}

// ToggleCompletion flips the completion flag of one task, leaving its
// parent's and children's flags untouched, then persists the flip.
// The local flip is kept even when persistence fails (optimistic, no
// rollback).
func (f *Forest) ToggleCompletion(ctx context.Context, id int) error {
	f.mu.Lock()
	node, ok := f.nodes[id]
	if !ok {
		f.mu.Unlock()
		return ErrNotFound
	}
	node.Completed = !node.Completed
	completed := node.Completed
	f.mu.Unlock()

	if err := f.svc.UpdateTask(ctx, id, service.TaskUpdate{Completed: &completed}); err != nil {
		f.logger.Warn("persist completion toggle failed", "task", id, "err", err)
		return err
	}
	return nil
}

// Edit replaces a task's scalar fields in place, always preserving its
// existing subtasks regardless of what the incoming value carries, then
// persists the new fields. Local patch is kept even when persistence
// fails.
func (f *Forest) Edit(ctx context.Context, t service.Task) error {
	f.mu.Lock()
	node, ok := f.nodes[t.ID]
	if !ok {
		f.mu.Unlock()
		return ErrNotFound
	}
	// Non-nil so clearing tags reaches the backend as an explicit [].
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	node.Title = t.Title
	node.Description = t.Description
	node.Priority = t.Priority
	node.DueDate = t.DueDate
	node.Tags = tags
	node.EstimatedMinutes = t.EstimatedMinutes
	f.mu.Unlock()

	upd := service.TaskUpdate{
		Title:            &t.Title,
		Description:      &t.Description,
		Priority:         &t.Priority,
		DueDate:          t.DueDate,
		Tags:             tags,
		EstimatedMinutes: &t.EstimatedMinutes,
	}
	if err := f.svc.UpdateTask(ctx, t.ID, upd); err != nil {
		f.logger.Warn("persist task edit failed", "task", t.ID, "err", err)
		return err
	}
	return nil
}

// Delete removes a task and its entire subtree. The remote deletion
// (which cascades) happens first; the local tree is only patched after
// it succeeds.
func (f *Forest) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	_, ok := f.nodes[id]
	f.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	if err := f.svc.DeleteTask(ctx, id); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	node, ok := f.nodes[id]
	if !ok {
		return nil
	}
	parent := f.parents[id]
	if parent == nil {
		for i, r := range f.roots {
			if r.ID == id {
				f.roots = append(f.roots[:i], f.roots[i+1:]...)
				break
			}
		}
	} else {
		for i, sub := range parent.Subtasks {
			if sub.ID == id {
				parent.Subtasks = append(parent.Subtasks[:i], parent.Subtasks[i+1:]...)
				break
			}
		}
	}
	f.unindexSubtree(node)
	return nil
}

// unindexSubtree drops a node and all its descendants from the index.
func (f *Forest) unindexSubtree(node *service.Task) {
	delete(f.nodes, node.ID)
	delete(f.parents, node.ID)
	for _, sub := range node.Subtasks {
		f.unindexSubtree(sub)
	}
}

// Reparent moves a task (and its subtree) under a new parent, or to
// the forest root when newParentID is 0. The move is validated before
// any remote call; on success the full forest is refetched, since a
// move can change more than one subtree.
func (f *Forest) Reparent(ctx context.Context, id, newParentID int) error {
	if id == newParentID {
		return ErrSelfParent
	}

	f.mu.Lock()
	if _, ok := f.nodes[id]; !ok {
		f.mu.Unlock()
		return ErrNotFound
	}
	if newParentID != 0 {
		if _, ok := f.nodes[newParentID]; !ok {
			f.mu.Unlock()
			return ErrNotFound
		}
		if f.isDescendantLocked(id, newParentID) {
			f.mu.Unlock()
			return ErrCycle
		}
	}
	f.mu.Unlock()

	upd := service.TaskUpdate{ClearParent: true}
	if newParentID != 0 {
		upd = service.TaskUpdate{ParentID: &newParentID}
	}
	if err := f.svc.UpdateTask(ctx, id, upd); err != nil {
		return err
	}
	return f.Load(ctx)
}
