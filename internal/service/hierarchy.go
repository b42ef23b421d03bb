package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"famtasks/internal/model"
	"famtasks/internal/repository"
)

// maxParentChain bounds the upward walk so corrupt data can never make the
// validator loop forever. Real hierarchies stay far below this.
const maxParentChain = 512

// TaskGetter is the slice of the task store the validator needs.
type TaskGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
}

// HierarchyValidator detects cycles in the task parent chain before a
// parent link is persisted.
type HierarchyValidator struct {
	tasks TaskGetter
}

func NewHierarchyValidator(tasks TaskGetter) *HierarchyValidator {
	return &HierarchyValidator{tasks: tasks}
}

// WouldCreateCycle walks the parent chain starting at parentID and reports
// whether attaching excludeID under it would close a cycle. The walk is
// iterative over a visited set: it returns true on revisiting excludeID or
// any id already seen, and false once the chain terminates or parentID stops
// resolving. Absence of the parent task itself is the caller's NOT_FOUND to
// raise, not a cycle.
func (v *HierarchyValidator) WouldCreateCycle(ctx context.Context, parentID, excludeID uuid.UUID) (bool, error) {
	seen := make(map[uuid.UUID]bool)
	current := parentID

	for {
		if excludeID != uuid.Nil && current == excludeID {
			return true, nil
		}
		if seen[current] {
			return true, nil
		}
		seen[current] = true
		if len(seen) > maxParentChain {
			return true, nil
		}

		task, err := v.tasks.GetByID(ctx, current)
		if err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				return false, nil
			}
			return false, Wrap(CodeInternal, "failed to walk parent chain", err)
		}
		if task.ParentTaskID == nil {
			return false, nil
		}
		current = *task.ParentTaskID
	}
}
