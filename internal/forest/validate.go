package forest

import "aitodo/internal/service"

// IsDescendant reports whether descendantID appears anywhere in the
// subtree strictly below ancestorID. A task is not its own descendant.
// Reparent consults this before committing a move; the forest provides
// no other cycle protection.
func (f *Forest) IsDescendant(ancestorID, descendantID int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isDescendantLocked(ancestorID, descendantID)
}

func (f *Forest) isDescendantLocked(ancestorID, descendantID int) bool {
	root, ok := f.nodes[ancestorID]
	if !ok {
		return false
	}
	stack := append([]*service.Task(nil), root.Subtasks...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node.ID == descendantID {
			return true
		}
		stack = append(stack, node.Subtasks...)
	}
	return false
}
